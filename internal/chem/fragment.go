package chem

// CleavableBonds lists bonds eligible for a single-bond disconnection:
// acyclic, non-aromatic single bonds between two heavy atoms.
func CleavableBonds(m *Mol) []int {
	ring := m.RingBonds()
	var out []int
	for bi, b := range m.Bonds {
		if b.Order != BondSingle || b.Aromatic || ring[bi] {
			continue
		}
		if m.Atoms[b.From].AtomicNum == 0 || m.Atoms[b.To].AtomicNum == 0 {
			continue
		}
		out = append(out, bi)
	}
	return out
}

// CleaveBond removes bond bi and caps both endpoints with a dummy
// attachment atom ("*"), returning the resulting fragments as canonical
// SMILES.  The input molecule is not modified.
func CleaveBond(m *Mol, bi int) []string {
	work := m.Clone()
	b := work.Bonds[bi]
	work.RemoveBond(bi)

	d1 := work.AddAtom(Atom{AtomicNum: 0, Symbol: "*"})
	work.AddBond(Bond{From: b.From, To: d1, Order: BondSingle})
	d2 := work.AddAtom(Atom{AtomicNum: 0, Symbol: "*"})
	work.AddBond(Bond{From: b.To, To: d2, Order: BondSingle})

	var frags []string
	for _, comp := range work.Components() {
		frags = append(frags, WriteCanonical(work.ExtractComponent(comp)))
	}
	return frags
}
