package chem

import (
	"sort"
)

// BondOrder is the integral order of a bond.  Aromatic bonds carry order 1
// plus the Aromatic flag; order arithmetic (valence sums) treats an aromatic
// atom as owning one extra shared pi electron.
type BondOrder int

const (
	BondSingle BondOrder = 1
	BondDouble BondOrder = 2
	BondTriple BondOrder = 3
)

// BondDir records the cis/trans direction markers ("/" and "\") written on
// single bonds adjacent to a double bond.
type BondDir int

const (
	DirNone BondDir = iota
	DirUp
	DirDown
)

// Chirality records a tetrahedral parity tag from a bracket atom.
type Chirality int

const (
	ChiralNone Chirality = iota
	ChiralCCW            // "@"
	ChiralCW             // "@@"
)

// Atom is a node of the molecular graph.  Hydrogens are implicit unless the
// atom was written in brackets with an explicit H count.
type Atom struct {
	AtomicNum int
	Symbol    string
	Aromatic  bool
	Charge    int
	Isotope   int
	Chirality Chirality
	MapNum    int // reaction atom map, 0 when absent

	// HasExplicitH indicates the atom came from a bracket expression and
	// its hydrogen count is fixed rather than derived from valence rules.
	HasExplicitH bool
	ExplicitH    int
}

// Bond is an edge of the molecular graph, identified by the indices of its
// endpoint atoms.
type Bond struct {
	From, To int
	Order    BondOrder
	Aromatic bool
	Dir      BondDir
}

// Other returns the endpoint of b opposite to atom idx.
func (b *Bond) Other(idx int) int {
	if b.From == idx {
		return b.To
	}
	return b.From
}

// Mol is a molecular graph.  It is mutable during construction; analysis
// helpers that cache derived state (adjacency, ring membership) invalidate
// the caches on mutation.
type Mol struct {
	Atoms []Atom
	Bonds []Bond

	adjacency [][]int // atom index -> bond indices
	ringBonds []bool  // bond index -> in-ring flag
}

// NewMol returns an empty molecule.
func NewMol() *Mol {
	return &Mol{}
}

// NumAtoms returns the heavy (explicit) atom count.
func (m *Mol) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the explicit bond count.
func (m *Mol) NumBonds() int { return len(m.Bonds) }

// AddAtom appends an atom and returns its index.
func (m *Mol) AddAtom(a Atom) int {
	if a.Symbol == "" {
		a.Symbol = symbolForAtomicNum[a.AtomicNum]
	}
	m.Atoms = append(m.Atoms, a)
	m.invalidate()
	return len(m.Atoms) - 1
}

// AddBond appends a bond between two existing atoms and returns its index.
func (m *Mol) AddBond(b Bond) int {
	m.Bonds = append(m.Bonds, b)
	m.invalidate()
	return len(m.Bonds) - 1
}

// RemoveBond deletes the bond at index bi.  Bond indices above bi shift down.
func (m *Mol) RemoveBond(bi int) {
	m.Bonds = append(m.Bonds[:bi], m.Bonds[bi+1:]...)
	m.invalidate()
}

func (m *Mol) invalidate() {
	m.adjacency = nil
	m.ringBonds = nil
}

// Adjacency returns, for each atom, the indices of its incident bonds.
// The slice is cached until the molecule is mutated.
func (m *Mol) Adjacency() [][]int {
	if m.adjacency == nil {
		adj := make([][]int, len(m.Atoms))
		for bi, b := range m.Bonds {
			adj[b.From] = append(adj[b.From], bi)
			adj[b.To] = append(adj[b.To], bi)
		}
		m.adjacency = adj
	}
	return m.adjacency
}

// Neighbors returns the atom indices adjacent to atom idx.
func (m *Mol) Neighbors(idx int) []int {
	adj := m.Adjacency()
	out := make([]int, 0, len(adj[idx]))
	for _, bi := range adj[idx] {
		out = append(out, m.Bonds[bi].Other(idx))
	}
	return out
}

// BondBetween returns the index of the bond connecting atoms i and j, or -1.
func (m *Mol) BondBetween(i, j int) int {
	for _, bi := range m.Adjacency()[i] {
		if m.Bonds[bi].Other(i) == j {
			return bi
		}
	}
	return -1
}

// Degree returns the number of explicit (heavy) neighbors of atom idx.
func (m *Mol) Degree(idx int) int {
	return len(m.Adjacency()[idx])
}

// bondOrderSum returns the valence consumed by the explicit bonds of atom
// idx.  Aromatic bonds count as order 1 each, with a single extra unit added
// for the delocalized pi system of an aromatic atom.
func (m *Mol) bondOrderSum(idx int) int {
	sum := 0
	aromaticBonds := 0
	for _, bi := range m.Adjacency()[idx] {
		b := &m.Bonds[bi]
		if b.Aromatic {
			sum++
			aromaticBonds++
		} else {
			sum += int(b.Order)
		}
	}
	if m.Atoms[idx].Aromatic && aromaticBonds > 0 {
		sum++
	}
	return sum
}

// ImplicitHCount returns the number of implicit hydrogens on atom idx.
// Bracket atoms use their explicit count; organic-subset atoms fill up to
// the smallest default valence that accommodates the bond-order sum.
func (m *Mol) ImplicitHCount(idx int) int {
	a := &m.Atoms[idx]
	if a.HasExplicitH {
		return a.ExplicitH
	}
	valences, ok := defaultValences[a.AtomicNum]
	if !ok {
		return 0
	}
	sum := m.bondOrderSum(idx)
	// Charge shifts the target valence for the common cases ([O-] and the
	// like arrive bracketed, but charged organic-subset atoms produced by
	// reaction transforms pass through here).
	for _, v := range valences {
		v += chargeValenceShift(a.AtomicNum, a.Charge)
		if sum <= v {
			return v - sum
		}
	}
	return 0
}

// chargeValenceShift adjusts an element's default valence for its formal
// charge: protonation raises the valence of N/O/S family atoms, deprotonation
// lowers it.
func chargeValenceShift(atomicNum, charge int) int {
	if charge == 0 {
		return 0
	}
	switch atomicNum {
	case 7, 8, 15, 16:
		return charge
	case 5, 6:
		return -abs(charge)
	}
	return 0
}

// TotalHCount returns all hydrogens on atom idx (implicit plus bracketed).
func (m *Mol) TotalHCount(idx int) int {
	return m.ImplicitHCount(idx)
}

// RingBonds reports, per bond index, whether the bond lies on a cycle.
// A bond is cyclic iff it is not a bridge of the graph.
func (m *Mol) RingBonds() []bool {
	if m.ringBonds != nil {
		return m.ringBonds
	}
	n := len(m.Atoms)
	inRing := make([]bool, len(m.Bonds))
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0
	adj := m.Adjacency()

	var dfs func(u, parentBond int)
	dfs = func(u, parentBond int) {
		disc[u] = timer
		low[u] = timer
		timer++
		for _, bi := range adj[u] {
			if bi == parentBond {
				continue
			}
			v := m.Bonds[bi].Other(u)
			if disc[v] == -1 {
				dfs(v, bi)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				// Bridge test: the bond is cyclic unless removing it
				// disconnects the subtree.
				if low[v] <= disc[u] {
					inRing[bi] = true
				}
			} else {
				if disc[v] < low[u] {
					low[u] = disc[v]
				}
				if disc[v] < disc[u] {
					inRing[bi] = true
				}
			}
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			dfs(i, -1)
		}
	}
	m.ringBonds = inRing
	return inRing
}

// InRing reports whether atom idx belongs to any cycle.
func (m *Mol) InRing(idx int) bool {
	ring := m.RingBonds()
	for _, bi := range m.Adjacency()[idx] {
		if ring[bi] {
			return true
		}
	}
	return false
}

// RingCount returns the cyclomatic number (the SSSR ring count): bonds minus
// atoms plus connected components.
func (m *Mol) RingCount() int {
	comps := m.Components()
	return len(m.Bonds) - len(m.Atoms) + len(comps)
}

// Rings returns one smallest ring per independent cycle, each as an ordered
// list of atom indices.  The set has cyclomatic-number cardinality; ties are
// broken deterministically by atom index.
func (m *Mol) Rings() [][]int {
	want := m.RingCount()
	if want == 0 {
		return nil
	}
	ringFlags := m.RingBonds()
	seen := map[string]bool{}
	var rings [][]int
	for bi, flagged := range ringFlags {
		if !flagged {
			continue
		}
		cycle := m.smallestCycleThrough(bi)
		if cycle == nil {
			continue
		}
		key := ringKey(cycle)
		if seen[key] {
			continue
		}
		seen[key] = true
		rings = append(rings, cycle)
	}
	// Keep the smallest rings up to the cyclomatic count.
	sort.SliceStable(rings, func(i, j int) bool { return len(rings[i]) < len(rings[j]) })
	if len(rings) > want {
		rings = rings[:want]
	}
	return rings
}

// smallestCycleThrough finds a shortest cycle containing bond bi via BFS
// from one endpoint to the other with the bond removed.
func (m *Mol) smallestCycleThrough(bi int) []int {
	b := m.Bonds[bi]
	start, goal := b.From, b.To
	prev := make([]int, len(m.Atoms))
	for i := range prev {
		prev[i] = -1
	}
	prev[start] = start
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == goal {
			break
		}
		for _, nbi := range m.Adjacency()[u] {
			if nbi == bi {
				continue
			}
			v := m.Bonds[nbi].Other(u)
			if prev[v] == -1 {
				prev[v] = u
				queue = append(queue, v)
			}
		}
	}
	if prev[goal] == -1 {
		return nil
	}
	var path []int
	for at := goal; at != start; at = prev[at] {
		path = append(path, at)
	}
	path = append(path, start)
	return path
}

func ringKey(cycle []int) string {
	sorted := append([]int(nil), cycle...)
	sort.Ints(sorted)
	key := make([]byte, 0, len(sorted)*3)
	for _, v := range sorted {
		key = append(key, byte(v>>16), byte(v>>8), byte(v))
	}
	return string(key)
}

// AromaticRingCount returns the number of rings whose atoms are all aromatic.
func (m *Mol) AromaticRingCount() int {
	count := 0
	for _, ring := range m.Rings() {
		allAromatic := true
		for _, ai := range ring {
			if !m.Atoms[ai].Aromatic {
				allAromatic = false
				break
			}
		}
		if allAromatic {
			count++
		}
	}
	return count
}

// Components partitions the atoms into connected components, each a sorted
// list of atom indices, ordered by their smallest member.
func (m *Mol) Components() [][]int {
	n := len(m.Atoms)
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}
	var comps [][]int
	for i := 0; i < n; i++ {
		if comp[i] != -1 {
			continue
		}
		id := len(comps)
		stack := []int{i}
		comp[i] = id
		var members []int
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, u)
			for _, v := range m.Neighbors(u) {
				if comp[v] == -1 {
					comp[v] = id
					stack = append(stack, v)
				}
			}
		}
		sort.Ints(members)
		comps = append(comps, members)
	}
	return comps
}

// ExtractComponent copies the induced subgraph over the given atom indices
// into a fresh molecule.  The atoms keep their relative order.
func (m *Mol) ExtractComponent(atomIdxs []int) *Mol {
	remap := make(map[int]int, len(atomIdxs))
	sub := NewMol()
	for _, ai := range atomIdxs {
		remap[ai] = sub.AddAtom(m.Atoms[ai])
	}
	for _, b := range m.Bonds {
		nf, okF := remap[b.From]
		nt, okT := remap[b.To]
		if okF && okT {
			sub.AddBond(Bond{From: nf, To: nt, Order: b.Order, Aromatic: b.Aromatic, Dir: b.Dir})
		}
	}
	return sub
}

// Clone returns a deep copy of the molecule.
func (m *Mol) Clone() *Mol {
	c := NewMol()
	c.Atoms = append([]Atom(nil), m.Atoms...)
	c.Bonds = append([]Bond(nil), m.Bonds...)
	return c
}

// TopologicalDistances computes all-pairs shortest path lengths in bonds.
// Unreachable pairs (separate fragments) are -1.
func (m *Mol) TopologicalDistances() [][]int {
	n := len(m.Atoms)
	dist := make([][]int, n)
	for s := 0; s < n; s++ {
		d := make([]int, n)
		for i := range d {
			d[i] = -1
		}
		d[s] = 0
		queue := []int{s}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range m.Neighbors(u) {
				if d[v] == -1 {
					d[v] = d[u] + 1
					queue = append(queue, v)
				}
			}
		}
		dist[s] = d
	}
	return dist
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
