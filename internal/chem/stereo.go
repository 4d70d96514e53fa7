package chem

import "math"

// ChiralCenter is a potential tetrahedral stereocenter.
type ChiralCenter struct {
	AtomIdx  int
	Assigned bool   // carries a parity tag in the input
	Label    string // "R"/"S" heuristic for assigned centers, "?" otherwise
}

// FindChiralCenters locates carbon atoms bearing four mutually distinct
// substituents (an implicit hydrogen counts as one).  Distinctness is judged
// by canonical ranks, so substituents equivalent under graph symmetry
// disqualify the center.
func FindChiralCenters(m *Mol) []ChiralCenter {
	ranks := CanonicalRanks(m)
	var centers []ChiralCenter
	for i := range m.Atoms {
		if m.Atoms[i].AtomicNum != 6 {
			continue
		}
		nbrs := m.Neighbors(i)
		h := m.TotalHCount(i)
		if len(nbrs)+h != 4 || h > 1 {
			continue
		}
		if !distinctRanks(ranks, nbrs) {
			continue
		}
		cc := ChiralCenter{AtomIdx: i, Label: "?"}
		if m.Atoms[i].Chirality != ChiralNone {
			cc.Assigned = true
			if m.Atoms[i].Chirality == ChiralCW {
				cc.Label = "R"
			} else {
				cc.Label = "S"
			}
		}
		centers = append(centers, cc)
	}
	return centers
}

func distinctRanks(ranks []int, nbrs []int) bool {
	for a := 0; a < len(nbrs); a++ {
		for b := a + 1; b < len(nbrs); b++ {
			if ranks[nbrs[a]] == ranks[nbrs[b]] {
				return false
			}
		}
	}
	return true
}

// StereoDoubleBonds counts double bonds capable of cis/trans isomerism:
// non-ring, non-aromatic double bonds whose two ends each carry at least
// one non-hydrogen substituent besides the bond itself, with the
// substituents on each end distinguishable by canonical rank.
func StereoDoubleBonds(m *Mol) (total, assigned int) {
	ranks := CanonicalRanks(m)
	ring := m.RingBonds()
	for bi, b := range m.Bonds {
		if b.Order != BondDouble || b.Aromatic || ring[bi] {
			continue
		}
		if !endDistinguishable(m, ranks, b.From, b.To) || !endDistinguishable(m, ranks, b.To, b.From) {
			continue
		}
		total++
		if hasDirNeighbor(m, b.From, bi) && hasDirNeighbor(m, b.To, bi) {
			assigned++
		}
	}
	return total, assigned
}

// endDistinguishable reports whether atom end of a double bond has
// substituents that can give rise to E/Z isomerism.
func endDistinguishable(m *Mol, ranks []int, end, across int) bool {
	var subs []int
	for _, v := range m.Neighbors(end) {
		if v != across {
			subs = append(subs, v)
		}
	}
	switch len(subs) {
	case 0:
		return false
	case 1:
		// One heavy substituent plus an implicit hydrogen: distinguishable.
		return m.TotalHCount(end) >= 1
	default:
		return ranks[subs[0]] != ranks[subs[1]]
	}
}

func hasDirNeighbor(m *Mol, atom, excludeBond int) bool {
	for _, bi := range m.Adjacency()[atom] {
		if bi != excludeBond && m.Bonds[bi].Dir != DirNone {
			return true
		}
	}
	return false
}

// StereoSummary aggregates the stereochemical features of a molecule.
type StereoSummary struct {
	ChiralCenters       []ChiralCenter
	StereoDoubleBonds   int
	AssignedDoubleBonds int
	PossibleIsomers     int
	HasStereo           bool
}

// enumerationLimit caps explicit stereoisomer enumeration; beyond it the
// count falls back to the closed-form 2^n.
const enumerationLimit = 16

// AnalyzeStereo computes the full stereochemical summary.  The possible
// isomer count is 2^u over the unassigned stereo elements, evaluated by
// explicit enumeration up to the limit and in closed form past it (the two
// agree; enumeration simply bounds the work).
func AnalyzeStereo(m *Mol) StereoSummary {
	s := StereoSummary{ChiralCenters: FindChiralCenters(m)}
	total, assigned := StereoDoubleBonds(m)
	s.StereoDoubleBonds = total
	s.AssignedDoubleBonds = assigned

	unassigned := total - assigned
	for _, cc := range s.ChiralCenters {
		if cc.Assigned {
			s.HasStereo = true
		} else {
			unassigned++
		}
	}
	if assigned > 0 {
		s.HasStereo = true
	}

	if unassigned <= enumerationLimit {
		count := 1
		for i := 0; i < unassigned; i++ {
			count *= 2
		}
		s.PossibleIsomers = count
	} else {
		s.PossibleIsomers = int(math.Pow(2, float64(unassigned)))
	}
	return s
}
