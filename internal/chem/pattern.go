package chem

import (
	"fmt"
	"sort"
)

// QueryMol is a substructure pattern: a molecular graph interpreted as a set
// of per-atom and per-bond match constraints rather than a concrete
// molecule.  The supported pattern language is the SMILES subset plus "*"
// (any atom) and "~" (any bond); SMARTS logical operators are not supported.
type QueryMol struct {
	mol *Mol
}

// ParsePattern compiles a pattern string.  Unlike molecule parsing, query
// parsing performs no valence or aromaticity sanitization, so fragments
// such as a single aromatic atom are valid patterns.
func ParsePattern(s string) (*QueryMol, error) {
	m, err := parse(s, modeQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return &QueryMol{mol: m}, nil
}

// NumAtoms returns the pattern's atom count.
func (q *QueryMol) NumAtoms() int { return q.mol.NumAtoms() }

// Mol exposes the underlying template graph for constructive uses
// (reaction product assembly).
func (q *QueryMol) Mol() *Mol { return q.mol }

// atomMatches tests a pattern atom against a target atom.
func atomMatches(q *Mol, qi int, t *Mol, ti int) bool {
	qa := &q.Atoms[qi]
	ta := &t.Atoms[ti]
	if qa.AtomicNum == 0 {
		return true // wildcard
	}
	if qa.AtomicNum != ta.AtomicNum {
		return false
	}
	// A kekulized pattern ring (C1=CC=CC=C1) should still hit an aromatic
	// target ring, so aromaticity only constrains when the pattern atom is
	// written aromatic.
	if qa.Aromatic && !ta.Aromatic {
		return false
	}
	if qa.Charge != 0 && qa.Charge != ta.Charge {
		return false
	}
	if qa.HasExplicitH && t.TotalHCount(ti) != qa.ExplicitH {
		return false
	}
	if qa.Isotope > 0 && qa.Isotope != ta.Isotope {
		return false
	}
	return true
}

// bondMatches tests a pattern bond against a target bond.
func bondMatches(qb *Bond, tb *Bond) bool {
	if qb.Order == anyBondOrder {
		return true
	}
	if qb.Aromatic {
		return tb.Aromatic
	}
	if qb.Order == BondSingle {
		// An unadorned pattern single bond also matches aromatic bonds, and
		// a kekulized pattern double bond matches aromatic bonds below.
		return tb.Aromatic || tb.Order == BondSingle
	}
	if qb.Order == BondDouble && tb.Aromatic {
		return true
	}
	return !tb.Aromatic && qb.Order == tb.Order
}

// matchState carries the backtracking state of a subgraph-isomorphism search.
type matchState struct {
	query   *Mol
	target  *Mol
	order   []int // query atoms in DFS visit order
	parent  []int // for each order position, the earlier query atom it bonds to (-1 for roots)
	mapping []int // query atom -> target atom, -1 unset
	used    []bool
	results [][]int
	limit   int
}

// SubstructMatches returns every distinct embedding of the pattern in the
// target, deduplicated by target atom set (symmetry-equivalent mappings
// collapse to one).  Each result maps pattern atom i to result[i].
func SubstructMatches(t *Mol, q *QueryMol) [][]int {
	return substructMatches(t, q, 0)
}

// HasSubstructMatch reports whether the pattern embeds in the target.
func HasSubstructMatch(t *Mol, q *QueryMol) bool {
	return len(substructMatches(t, q, 1)) > 0
}

func substructMatches(t *Mol, q *QueryMol, limit int) [][]int {
	qm := q.mol
	if qm.NumAtoms() == 0 || qm.NumAtoms() > t.NumAtoms() {
		return nil
	}
	st := &matchState{
		query:   qm,
		target:  t,
		mapping: make([]int, qm.NumAtoms()),
		used:    make([]bool, t.NumAtoms()),
		limit:   limit,
	}
	st.buildOrder()
	for i := range st.mapping {
		st.mapping[i] = -1
	}
	st.extend(0)

	// Deduplicate by target atom set.
	seen := map[string]bool{}
	var out [][]int
	for _, res := range st.results {
		key := ringKey(res)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, res)
	}
	return out
}

// buildOrder computes a connectivity-first visit order so every non-root
// query atom is placed adjacent to an already-placed one.
func (st *matchState) buildOrder() {
	n := st.query.NumAtoms()
	visited := make([]bool, n)
	for root := 0; root < n; root++ {
		if visited[root] {
			continue
		}
		st.order = append(st.order, root)
		st.parent = append(st.parent, -1)
		visited[root] = true
		for frontier := len(st.order) - 1; frontier < len(st.order); frontier++ {
			u := st.order[frontier]
			nbrs := st.query.Neighbors(u)
			sort.Ints(nbrs)
			for _, v := range nbrs {
				if !visited[v] {
					visited[v] = true
					st.order = append(st.order, v)
					st.parent = append(st.parent, u)
				}
			}
		}
	}
}

func (st *matchState) extend(pos int) {
	if st.limit > 0 && len(st.results) >= st.limit {
		return
	}
	if pos == len(st.order) {
		st.results = append(st.results, append([]int(nil), st.mapping...))
		return
	}
	qi := st.order[pos]
	var candidates []int
	if p := st.parent[pos]; p == -1 {
		for ti := 0; ti < st.target.NumAtoms(); ti++ {
			candidates = append(candidates, ti)
		}
	} else {
		candidates = st.target.Neighbors(st.mapping[p])
	}
	for _, ti := range candidates {
		if st.used[ti] || !atomMatches(st.query, qi, st.target, ti) {
			continue
		}
		if !st.bondsConsistent(qi, ti) {
			continue
		}
		st.mapping[qi] = ti
		st.used[ti] = true
		st.extend(pos + 1)
		st.used[ti] = false
		st.mapping[qi] = -1
	}
}

// bondsConsistent verifies that every query bond from qi to an already
// mapped atom has a matching target bond.
func (st *matchState) bondsConsistent(qi, ti int) bool {
	for _, qbi := range st.query.Adjacency()[qi] {
		qb := &st.query.Bonds[qbi]
		other := qb.Other(qi)
		tOther := st.mapping[other]
		if tOther == -1 {
			continue
		}
		tbi := st.target.BondBetween(ti, tOther)
		if tbi == -1 || !bondMatches(qb, &st.target.Bonds[tbi]) {
			return false
		}
	}
	return true
}
