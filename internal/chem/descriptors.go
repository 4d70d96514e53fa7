package chem

import (
	"fmt"
	"sort"
	"strings"
)

// Descriptors bundles the scalar properties computed for a parsed molecule.
type Descriptors struct {
	Formula        string
	MolWeight      float64
	AtomCount      int
	BondCount      int
	RingCount      int
	AromaticRings  int
	RotatableBonds int
	HBondDonors    int
	HBondAcceptors int
	LogP           float64
	TPSA           float64
}

// ComputeDescriptors evaluates all scalar descriptors in one pass.
func ComputeDescriptors(m *Mol) Descriptors {
	return Descriptors{
		Formula:        MolecularFormula(m),
		MolWeight:      MolecularWeight(m),
		AtomCount:      m.NumAtoms(),
		BondCount:      m.NumBonds(),
		RingCount:      m.RingCount(),
		AromaticRings:  m.AromaticRingCount(),
		RotatableBonds: RotatableBondCount(m),
		HBondDonors:    HBondDonorCount(m),
		HBondAcceptors: HBondAcceptorCount(m),
		LogP:           CrippenLogP(m),
		TPSA:           PolarSurfaceArea(m),
	}
}

// MolecularFormula returns the Hill-order formula: carbon first, hydrogen
// second, remaining elements alphabetically.  Without carbon, all elements
// sort alphabetically.
func MolecularFormula(m *Mol) string {
	counts := map[string]int{}
	for i := range m.Atoms {
		if m.Atoms[i].AtomicNum == 0 {
			continue
		}
		counts[m.Atoms[i].Symbol]++
		counts["H"] += m.TotalHCount(i)
	}
	if counts["H"] == 0 {
		delete(counts, "H")
	}

	var order []string
	if counts["C"] > 0 {
		order = append(order, "C")
		if counts["H"] > 0 {
			order = append(order, "H")
		}
	}
	var rest []string
	for sym := range counts {
		if counts["C"] > 0 && (sym == "C" || sym == "H") {
			continue
		}
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var sb strings.Builder
	for _, sym := range order {
		sb.WriteString(sym)
		if counts[sym] > 1 {
			fmt.Fprintf(&sb, "%d", counts[sym])
		}
	}
	return sb.String()
}

// MolecularWeight returns the average molecular weight, hydrogens included.
func MolecularWeight(m *Mol) float64 {
	w := 0.0
	for i := range m.Atoms {
		w += atomicMass(m.Atoms[i].AtomicNum)
		w += 1.008 * float64(m.TotalHCount(i))
	}
	return w
}

// RotatableBondCount counts acyclic single bonds between two non-terminal
// heavy atoms.  Triple-bond-adjacent linear bonds are excluded since their
// rotation is degenerate.
func RotatableBondCount(m *Mol) int {
	ring := m.RingBonds()
	count := 0
	for bi, b := range m.Bonds {
		if b.Order != BondSingle || b.Aromatic || ring[bi] {
			continue
		}
		if m.Degree(b.From) < 2 || m.Degree(b.To) < 2 {
			continue
		}
		if hasTripleBond(m, b.From) || hasTripleBond(m, b.To) {
			continue
		}
		count++
	}
	return count
}

func hasTripleBond(m *Mol, idx int) bool {
	for _, bi := range m.Adjacency()[idx] {
		if m.Bonds[bi].Order == BondTriple {
			return true
		}
	}
	return false
}

// HBondDonorCount counts nitrogen and oxygen atoms carrying at least one
// hydrogen (the Lipinski donor definition).
func HBondDonorCount(m *Mol) int {
	count := 0
	for i := range m.Atoms {
		n := m.Atoms[i].AtomicNum
		if (n == 7 || n == 8) && m.TotalHCount(i) > 0 {
			count++
		}
	}
	return count
}

// HBondAcceptorCount counts all nitrogen and oxygen atoms (the Lipinski
// N+O acceptor definition).
func HBondAcceptorCount(m *Mol) int {
	count := 0
	for i := range m.Atoms {
		n := m.Atoms[i].AtomicNum
		if n == 7 || n == 8 {
			count++
		}
	}
	return count
}

// CrippenLogP estimates the octanol/water partition coefficient from
// additive atomic contributions, a coarse variant of the Crippen scheme:
// each heavy atom contributes by element and aromaticity, and hydrogens
// contribute by the polarity of their host atom.
func CrippenLogP(m *Mol) float64 {
	logp := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		h := float64(m.TotalHCount(i))
		switch a.AtomicNum {
		case 6:
			if a.Aromatic {
				logp += 0.29
			} else {
				logp += 0.20
			}
			logp += 0.12 * h
		case 7:
			if a.Aromatic {
				logp += -0.50
			} else {
				logp += -0.70
			}
			logp += -0.20 * h
		case 8:
			logp += -0.40
			logp += -0.20 * h
		case 16:
			logp += 0.60
		case 15:
			logp += -0.30
		case 9:
			logp += 0.14
		case 17:
			logp += 0.65
		case 35:
			logp += 0.86
		case 53:
			logp += 1.10
		default:
			logp += 0.08 * h
		}
	}
	return logp
}

// PolarSurfaceArea estimates the topological polar surface area (Ertl TPSA)
// from nitrogen and oxygen fragment contributions.
func PolarSurfaceArea(m *Mol) float64 {
	tpsa := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		h := m.TotalHCount(i)
		switch a.AtomicNum {
		case 8:
			switch {
			case a.Aromatic:
				tpsa += 13.14
			case hasDoubleBond(m, i):
				tpsa += 17.07
			case h > 0:
				tpsa += 20.23
			default:
				tpsa += 9.23
			}
		case 7:
			switch {
			case a.Aromatic && h > 0:
				tpsa += 15.79
			case a.Aromatic:
				tpsa += 12.89
			case h >= 2:
				tpsa += 26.02
			case h == 1:
				tpsa += 12.03
			default:
				tpsa += 3.24
			}
		}
	}
	return tpsa
}

func hasDoubleBond(m *Mol, idx int) bool {
	for _, bi := range m.Adjacency()[idx] {
		b := &m.Bonds[bi]
		if !b.Aromatic && b.Order == BondDouble {
			return true
		}
	}
	return false
}
