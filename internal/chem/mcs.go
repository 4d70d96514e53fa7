package chem

import (
	"time"
)

// MCSResult is the outcome of a maximum-common-substructure search.
type MCSResult struct {
	AtomCount int
	BondCount int
	Fragment  *Mol // common substructure as a subgraph of the first molecule
	TimedOut  bool
}

// FindMCS searches for the maximum connected common substructure across two
// or more molecules.  The search is exact while time remains and degrades to
// best-found-so-far when the deadline passes (TimedOut is then set).
//
// Multi-molecule search folds pairwise: the common substructure of the first
// two molecules is intersected with each subsequent molecule.
func FindMCS(mols []*Mol, deadline time.Time) MCSResult {
	if len(mols) < 2 {
		return MCSResult{}
	}
	current := mols[0]
	res := MCSResult{}
	for _, next := range mols[1:] {
		res = pairwiseMCS(current, next, deadline)
		if res.Fragment == nil || res.AtomCount == 0 {
			return res
		}
		current = res.Fragment
	}
	return res
}

// mcsSearch holds the state of one pairwise search.  Molecule A is the
// smaller of the pair so the mapping array stays compact.
type mcsSearch struct {
	a, b     *Mol
	mapping  []int // a atom -> b atom, -1 unset
	usedB    []bool
	deadline time.Time
	timedOut bool

	bestAtoms []int // mapped a atoms of the best candidate
	bestBonds int
	ticks     int
}

func pairwiseMCS(a, b *Mol, deadline time.Time) MCSResult {
	swapped := false
	if b.NumAtoms() < a.NumAtoms() {
		a, b = b, a
		swapped = true
	}
	_ = swapped // the fragment is reported from a either way

	s := &mcsSearch{
		a:        a,
		b:        b,
		mapping:  make([]int, a.NumAtoms()),
		usedB:    make([]bool, b.NumAtoms()),
		deadline: deadline,
	}
	for i := range s.mapping {
		s.mapping[i] = -1
	}

	// Seed every compatible atom pair; growth is connected, so every
	// connected common subgraph is reachable from some seed.
	for ai := 0; ai < a.NumAtoms() && !s.expired(); ai++ {
		for bi := 0; bi < b.NumAtoms() && !s.expired(); bi++ {
			if !mcsAtomCompatible(a, ai, b, bi) {
				continue
			}
			s.mapping[ai] = bi
			s.usedB[bi] = true
			s.record()
			s.grow()
			s.usedB[bi] = false
			s.mapping[ai] = -1
		}
	}

	res := MCSResult{TimedOut: s.timedOut}
	if len(s.bestAtoms) > 0 {
		res.AtomCount = len(s.bestAtoms)
		res.BondCount = s.bestBonds
		res.Fragment = a.ExtractComponent(s.bestAtoms)
	}
	return res
}

func (s *mcsSearch) expired() bool {
	s.ticks++
	if s.ticks%64 == 0 && !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.timedOut = true
	}
	return s.timedOut
}

// grow extends the current mapping by one compatible frontier pair and
// recurses, trying every extension.  Bond environments must agree exactly:
// a bond between two mapped A atoms must exist and match in B, and vice
// versa, keeping the common subgraph induced on both sides.
func (s *mcsSearch) grow() {
	if s.expired() {
		return
	}
	for ai := 0; ai < s.a.NumAtoms(); ai++ {
		if s.mapping[ai] != -1 {
			continue
		}
		if !s.adjacentToMapped(ai) {
			continue
		}
		for bi := 0; bi < s.b.NumAtoms(); bi++ {
			if s.usedB[bi] || !mcsAtomCompatible(s.a, ai, s.b, bi) {
				continue
			}
			if !s.extensionConsistent(ai, bi) {
				continue
			}
			s.mapping[ai] = bi
			s.usedB[bi] = true
			s.record()
			s.grow()
			s.usedB[bi] = false
			s.mapping[ai] = -1
			if s.timedOut {
				return
			}
		}
	}
}

func (s *mcsSearch) adjacentToMapped(ai int) bool {
	for _, v := range s.a.Neighbors(ai) {
		if s.mapping[v] != -1 {
			return true
		}
	}
	return false
}

// extensionConsistent requires the candidate pair to agree with every
// already-mapped neighbor: bonds present on one side must be present and
// type-compatible on the other.
func (s *mcsSearch) extensionConsistent(ai, bi int) bool {
	connected := false
	for prev, mapped := range s.mapping {
		if mapped == -1 {
			continue
		}
		abi := s.a.BondBetween(ai, prev)
		bbi := s.b.BondBetween(bi, mapped)
		if (abi == -1) != (bbi == -1) {
			return false
		}
		if abi != -1 {
			if !mcsBondCompatible(&s.a.Bonds[abi], &s.b.Bonds[bbi]) {
				return false
			}
			connected = true
		}
	}
	return connected
}

func (s *mcsSearch) record() {
	atoms := make([]int, 0, len(s.mapping))
	bonds := 0
	for ai, bi := range s.mapping {
		if bi != -1 {
			atoms = append(atoms, ai)
		}
	}
	for _, b := range s.a.Bonds {
		if s.mapping[b.From] != -1 && s.mapping[b.To] != -1 {
			bonds++
		}
	}
	if bonds > s.bestBonds || (bonds == s.bestBonds && len(atoms) > len(s.bestAtoms)) {
		s.bestAtoms = atoms
		s.bestBonds = bonds
	}
}

func mcsAtomCompatible(a *Mol, ai int, b *Mol, bi int) bool {
	aa, ba := &a.Atoms[ai], &b.Atoms[bi]
	return aa.AtomicNum == ba.AtomicNum && aa.Aromatic == ba.Aromatic
}

func mcsBondCompatible(x, y *Bond) bool {
	if x.Aromatic != y.Aromatic {
		return false
	}
	return x.Aromatic || x.Order == y.Order
}
