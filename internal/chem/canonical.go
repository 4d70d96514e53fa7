package chem

import (
	"fmt"
	"sort"
	"strings"
)

// CanonicalRanks assigns each atom a rank derived purely from graph
// invariants, via iterative neighborhood refinement (Morgan-style).  Atoms
// with equal ranks are symmetry-equivalent as far as the refinement can
// tell; ranks are stable across input atom orderings.
func CanonicalRanks(m *Mol) []int {
	n := m.NumAtoms()
	if n == 0 {
		return nil
	}

	keys := make([][]int, n)
	for i := 0; i < n; i++ {
		a := &m.Atoms[i]
		arom := 0
		if a.Aromatic {
			arom = 1
		}
		keys[i] = []int{a.AtomicNum, arom, m.Degree(i), m.TotalHCount(i), a.Charge, a.Isotope}
	}
	ranks := rankByKeys(keys)

	for iter := 0; iter < n; iter++ {
		distinct := countDistinct(ranks)
		next := make([][]int, n)
		for i := 0; i < n; i++ {
			nbr := make([]int, 0, m.Degree(i))
			for _, bi := range m.Adjacency()[i] {
				b := &m.Bonds[bi]
				// Fold the bond type into the neighbor contribution so a
				// double-bonded neighbor ranks apart from a single-bonded one.
				nbr = append(nbr, ranks[b.Other(i)]*8+bondTypeKey(b))
			}
			sort.Ints(nbr)
			next[i] = append([]int{ranks[i]}, nbr...)
		}
		ranks = rankByKeys(next)
		if countDistinct(ranks) == distinct {
			break
		}
	}
	return ranks
}

func bondTypeKey(b *Bond) int {
	if b.Aromatic {
		return 4
	}
	return int(b.Order)
}

func rankByKeys(keys [][]int) []int {
	n := len(keys)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lessIntSlice(keys[idx[a]], keys[idx[b]])
	})
	ranks := make([]int, n)
	rank := 0
	for i, ai := range idx {
		if i > 0 && lessIntSlice(keys[idx[i-1]], keys[ai]) {
			rank++
		}
		ranks[ai] = rank
	}
	return ranks
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func countDistinct(ranks []int) int {
	seen := map[int]bool{}
	for _, r := range ranks {
		seen[r] = true
	}
	return len(seen)
}

// WriteCanonical emits a canonical SMILES for the molecule.  Fragments are
// canonicalized independently, sorted lexicographically, and joined with
// ".".  Tetrahedral parity tags are not emitted; the canonical form is a
// constitutional identifier.
func WriteCanonical(m *Mol) string {
	comps := m.Components()
	if len(comps) == 0 {
		return ""
	}
	parts := make([]string, 0, len(comps))
	for _, comp := range comps {
		frag := m
		if len(comps) > 1 {
			frag = m.ExtractComponent(comp)
		}
		parts = append(parts, writeFragment(frag))
	}
	sort.Strings(parts)
	return strings.Join(parts, ".")
}

type smilesWriter struct {
	mol      *Mol
	ranks    []int
	visited  []bool
	treeBond []bool
	closures map[int][]ringClosure // atom -> closures, in digit order
	digits   int
	sb       strings.Builder
}

type ringClosure struct {
	digit int
	bond  int
}

func writeFragment(m *Mol) string {
	w := &smilesWriter{
		mol:      m,
		ranks:    CanonicalRanks(m),
		visited:  make([]bool, m.NumAtoms()),
		treeBond: make([]bool, m.NumBonds()),
		closures: map[int][]ringClosure{},
	}
	start := 0
	for i := 1; i < m.NumAtoms(); i++ {
		if w.ranks[i] < w.ranks[start] {
			start = i
		}
	}
	w.assignClosures(start, -1)
	for i := range w.visited {
		w.visited[i] = false
	}
	w.emit(start, -1)
	return w.sb.String()
}

// sortedBonds orders atom u's incident bonds by the canonical rank of the
// opposite atom, with the atom index as a deterministic tie-break.
func (w *smilesWriter) sortedBonds(u int) []int {
	bonds := append([]int(nil), w.mol.Adjacency()[u]...)
	sort.SliceStable(bonds, func(a, b int) bool {
		va := w.mol.Bonds[bonds[a]].Other(u)
		vb := w.mol.Bonds[bonds[b]].Other(u)
		if w.ranks[va] != w.ranks[vb] {
			return w.ranks[va] < w.ranks[vb]
		}
		return va < vb
	})
	return bonds
}

// assignClosures walks the spanning tree, marking tree bonds and allocating
// ring-closure digits for back edges.  The digit is recorded on both
// endpoints so the emit pass can write it after each atom symbol.
func (w *smilesWriter) assignClosures(u, parentBond int) {
	w.visited[u] = true
	for _, bi := range w.sortedBonds(u) {
		if bi == parentBond || w.treeBond[bi] {
			continue
		}
		v := w.mol.Bonds[bi].Other(u)
		if w.visited[v] {
			if !w.closureAssigned(bi) {
				w.digits++
				rc := ringClosure{digit: w.digits, bond: bi}
				w.closures[u] = append(w.closures[u], rc)
				w.closures[v] = append(w.closures[v], rc)
			}
			continue
		}
		w.treeBond[bi] = true
		w.assignClosures(v, bi)
	}
}

func (w *smilesWriter) closureAssigned(bi int) bool {
	for _, rcs := range w.closures {
		for _, rc := range rcs {
			if rc.bond == bi {
				return true
			}
		}
	}
	return false
}

func (w *smilesWriter) emit(u, parentBond int) {
	w.visited[u] = true
	if parentBond >= 0 {
		w.sb.WriteString(w.bondSymbol(parentBond))
	}
	w.sb.WriteString(w.atomString(u))

	rcs := append([]ringClosure(nil), w.closures[u]...)
	sort.Slice(rcs, func(a, b int) bool { return rcs[a].digit < rcs[b].digit })
	for _, rc := range rcs {
		w.sb.WriteString(w.bondSymbol(rc.bond))
		if rc.digit < 10 {
			fmt.Fprintf(&w.sb, "%d", rc.digit)
		} else {
			fmt.Fprintf(&w.sb, "%%%02d", rc.digit)
		}
	}

	var children []int
	for _, bi := range w.sortedBonds(u) {
		if bi == parentBond || !w.treeBond[bi] {
			continue
		}
		v := w.mol.Bonds[bi].Other(u)
		if !w.visited[v] {
			children = append(children, bi)
		}
	}
	for i, bi := range children {
		v := w.mol.Bonds[bi].Other(u)
		if i < len(children)-1 {
			w.sb.WriteByte('(')
			w.emit(v, bi)
			w.sb.WriteByte(')')
		} else {
			w.emit(v, bi)
		}
	}
}

// bondSymbol returns the symbol written before an atom or ring-closure
// digit.  Aromatic and default single bonds are implicit; an explicit "-"
// disambiguates a genuine single bond between two aromatic atoms.
func (w *smilesWriter) bondSymbol(bi int) string {
	b := &w.mol.Bonds[bi]
	if b.Aromatic {
		return ""
	}
	switch b.Order {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	}
	if w.mol.Atoms[b.From].Aromatic && w.mol.Atoms[b.To].Aromatic {
		return "-"
	}
	return ""
}

func (w *smilesWriter) atomString(u int) string {
	a := &w.mol.Atoms[u]
	sym := a.Symbol
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}
	if !w.needsBracket(u) {
		return sym
	}
	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		fmt.Fprintf(&sb, "%d", a.Isotope)
	}
	sb.WriteString(sym)
	h := w.mol.TotalHCount(u)
	if h == 1 {
		sb.WriteByte('H')
	} else if h > 1 {
		fmt.Fprintf(&sb, "H%d", h)
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		fmt.Fprintf(&sb, "+%d", a.Charge)
	case a.Charge < -1:
		fmt.Fprintf(&sb, "-%d", -a.Charge)
	}
	sb.WriteByte(']')
	return sb.String()
}

// needsBracket reports whether atom u cannot be written as a bare symbol:
// charged, isotopic, outside the organic subset, or carrying a hydrogen
// count that valence rules would not reproduce.
func (w *smilesWriter) needsBracket(u int) bool {
	a := &w.mol.Atoms[u]
	if a.AtomicNum == 0 {
		return false
	}
	if a.Charge != 0 || a.Isotope > 0 {
		return true
	}
	if !organicSubset[a.Symbol] {
		return true
	}
	if a.HasExplicitH && a.ExplicitH != w.impliedHCount(u) {
		return true
	}
	return false
}

// impliedHCount computes the hydrogen count valence rules would assign if
// the atom's H count were not pinned by a bracket expression.
func (w *smilesWriter) impliedHCount(u int) int {
	a := &w.mol.Atoms[u]
	valences, ok := defaultValences[a.AtomicNum]
	if !ok {
		return 0
	}
	sum := w.mol.bondOrderSum(u)
	for _, v := range valences {
		v += chargeValenceShift(a.AtomicNum, a.Charge)
		if sum <= v {
			return v - sum
		}
	}
	return 0
}
