package chem

import (
	"fmt"
	"math"
	"math/rand"
)

// embedSeed is the fixed random seed for conformer embedding, keeping
// ensembles reproducible across calls and hosts.
const embedSeed = 0xF00D

// Conformer is one embedded 3D geometry with its minimized strain energy
// (arbitrary force-field units comparable within an ensemble).
type Conformer struct {
	Coords [][3]float64
	Energy float64
}

// EmbedResult is a conformer ensemble plus the force field that produced it.
type EmbedResult struct {
	Conformers []Conformer
	ForceField string // "MMFF" or "UFF"
}

// mmffElements lists the elements the primary parameter set covers; anything
// else falls back to the universal set.
var mmffElements = map[int]bool{
	1: true, 6: true, 7: true, 8: true, 9: true,
	15: true, 16: true, 17: true, 35: true, 53: true,
}

// GenerateConformers embeds count conformers of the molecule (hydrogens
// added) and minimizes each with up to maxIters steepest-descent steps.
// The primary MMFF-style parameters are used when every element is covered;
// otherwise the universal UFF-style set applies.
func GenerateConformers(m *Mol, count, maxIters int) (*EmbedResult, error) {
	if m.NumAtoms() == 0 {
		return nil, fmt.Errorf("cannot embed an empty molecule")
	}
	if count < 1 {
		return nil, fmt.Errorf("conformer count must be >= 1, got %d", count)
	}

	em := addHydrogens(m)
	ff := newForceField(em)

	res := &EmbedResult{ForceField: "MMFF"}
	if !ff.primary {
		res.ForceField = "UFF"
	}
	for c := 0; c < count; c++ {
		rng := rand.New(rand.NewSource(embedSeed + int64(c)*1009))
		coords := randomCoords(em.NumAtoms(), rng)
		energy := ff.minimize(coords, maxIters)
		if math.IsNaN(energy) || math.IsInf(energy, 0) {
			return nil, fmt.Errorf("embedding diverged for conformer %d", c)
		}
		res.Conformers = append(res.Conformers, Conformer{Coords: coords, Energy: energy})
	}
	return res, nil
}

// addHydrogens returns a copy of m with implicit hydrogens made explicit.
func addHydrogens(m *Mol) *Mol {
	em := m.Clone()
	heavy := m.NumAtoms()
	for i := 0; i < heavy; i++ {
		for h := 0; h < m.TotalHCount(i); h++ {
			hi := em.AddAtom(Atom{AtomicNum: 1, Symbol: "H", HasExplicitH: true})
			em.AddBond(Bond{From: i, To: hi, Order: BondSingle})
		}
	}
	return em
}

func randomCoords(n int, rng *rand.Rand) [][3]float64 {
	side := 2.0 * math.Cbrt(float64(n))
	coords := make([][3]float64, n)
	for i := range coords {
		coords[i] = [3]float64{
			(rng.Float64() - 0.5) * side,
			(rng.Float64() - 0.5) * side,
			(rng.Float64() - 0.5) * side,
		}
	}
	return coords
}

// distanceTerm is a harmonic restraint on an interatomic distance.
type distanceTerm struct {
	i, j    int
	target  float64
	k       float64
	repulse bool // one-sided: penalize only closer than target
}

type forceField struct {
	mol     *Mol
	terms   []distanceTerm
	primary bool
}

func newForceField(m *Mol) *forceField {
	ff := &forceField{mol: m, primary: true}
	for i := range m.Atoms {
		if !mmffElements[m.Atoms[i].AtomicNum] && m.Atoms[i].AtomicNum != 0 {
			ff.primary = false
			break
		}
	}

	bonded := map[[2]int]bool{}
	mark := func(i, j int) {
		if i > j {
			i, j = j, i
		}
		bonded[[2]int{i, j}] = true
	}

	// Bond stretch terms.
	for _, b := range m.Bonds {
		ff.terms = append(ff.terms, distanceTerm{
			i: b.From, j: b.To,
			target: ff.bondLength(&b),
			k:      300,
		})
		mark(b.From, b.To)
	}

	// Angle terms expressed as 1-3 distance restraints.
	for center := range m.Atoms {
		nbrs := m.Neighbors(center)
		if len(nbrs) < 2 {
			continue
		}
		theta := ff.idealAngle(center)
		for x := 0; x < len(nbrs); x++ {
			for y := x + 1; y < len(nbrs); y++ {
				i, j := nbrs[x], nbrs[y]
				r1 := ff.bondLength(&m.Bonds[m.BondBetween(center, i)])
				r2 := ff.bondLength(&m.Bonds[m.BondBetween(center, j)])
				d13 := math.Sqrt(r1*r1 + r2*r2 - 2*r1*r2*math.Cos(theta))
				ff.terms = append(ff.terms, distanceTerm{i: i, j: j, target: d13, k: 80})
				mark(i, j)
			}
		}
	}

	// Soft repulsion between non-bonded, non-geminal pairs.
	for i := 0; i < m.NumAtoms(); i++ {
		for j := i + 1; j < m.NumAtoms(); j++ {
			if bonded[[2]int{i, j}] {
				continue
			}
			dmin := 2.4
			if m.Atoms[i].AtomicNum == 1 || m.Atoms[j].AtomicNum == 1 {
				dmin = 1.9
			}
			ff.terms = append(ff.terms, distanceTerm{i: i, j: j, target: dmin, k: 25, repulse: true})
		}
	}
	return ff
}

// primaryBondLengths holds reference bond lengths (Å) for the common
// element pairs, keyed by the two atomic numbers (low first) and bond key.
var primaryBondLengths = map[[3]int]float64{
	{1, 6, 1}: 1.09, {1, 7, 1}: 1.01, {1, 8, 1}: 0.96, {1, 16, 1}: 1.34,
	{6, 6, 1}: 1.53, {6, 6, 2}: 1.33, {6, 6, 3}: 1.20, {6, 6, 4}: 1.39,
	{6, 7, 1}: 1.47, {6, 7, 2}: 1.28, {6, 7, 3}: 1.16, {6, 7, 4}: 1.34,
	{6, 8, 1}: 1.43, {6, 8, 2}: 1.22, {6, 8, 4}: 1.36,
	{6, 9, 1}: 1.35, {6, 16, 1}: 1.81, {6, 17, 1}: 1.77,
	{6, 35, 1}: 1.94, {6, 53, 1}: 2.14,
	{7, 8, 1}: 1.40, {7, 8, 2}: 1.21, {8, 16, 2}: 1.44,
}

func (ff *forceField) bondLength(b *Bond) float64 {
	a1 := ff.mol.Atoms[b.From].AtomicNum
	a2 := ff.mol.Atoms[b.To].AtomicNum
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	if ff.primary {
		if r, ok := primaryBondLengths[[3]int{a1, a2, bondTypeKey(b)}]; ok {
			return r
		}
	}
	// Universal estimate from covalent radii, contracted for multiple bonds.
	r := covalentRadius(a1) + covalentRadius(a2)
	switch {
	case b.Aromatic:
		return r * 0.93
	case b.Order == BondDouble:
		return r * 0.87
	case b.Order == BondTriple:
		return r * 0.78
	}
	return r
}

func (ff *forceField) idealAngle(center int) float64 {
	m := ff.mol
	if m.Atoms[center].Aromatic {
		return 120 * math.Pi / 180
	}
	doubles := 0
	for _, bi := range m.Adjacency()[center] {
		switch m.Bonds[bi].Order {
		case BondTriple:
			return math.Pi
		case BondDouble:
			doubles++
		}
	}
	if doubles >= 2 {
		return math.Pi
	}
	if doubles == 1 {
		return 120 * math.Pi / 180
	}
	return 109.47 * math.Pi / 180
}

// minimize runs steepest descent over the distance terms, mutating coords
// in place and returning the final energy.  Uphill trial steps are rejected
// and retried with a smaller step, so the energy is non-increasing.
func (ff *forceField) minimize(coords [][3]float64, maxIters int) float64 {
	grad := make([][3]float64, len(coords))
	trial := make([][3]float64, len(coords))
	step := 0.01
	energy := ff.evaluate(coords, grad)
	for iter := 0; iter < maxIters; iter++ {
		for i := range coords {
			for d := 0; d < 3; d++ {
				delta := -step * grad[i][d]
				if delta > 0.2 {
					delta = 0.2
				} else if delta < -0.2 {
					delta = -0.2
				}
				trial[i][d] = coords[i][d] + delta
			}
		}
		next := ff.evaluate(trial, grad)
		if next > energy {
			// Recompute the gradient at the rejected position's origin and
			// retry more cautiously.
			ff.evaluate(coords, grad)
			step *= 0.5
			if step < 1e-7 {
				return energy
			}
			continue
		}
		copy(coords, trial)
		if energy-next < 1e-6 {
			return next
		}
		energy = next
		step *= 1.05
	}
	return energy
}

func (ff *forceField) evaluate(coords [][3]float64, grad [][3]float64) float64 {
	for i := range grad {
		grad[i] = [3]float64{}
	}
	energy := 0.0
	for _, t := range ff.terms {
		var dv [3]float64
		d2 := 0.0
		for k := 0; k < 3; k++ {
			dv[k] = coords[t.i][k] - coords[t.j][k]
			d2 += dv[k] * dv[k]
		}
		d := math.Sqrt(d2)
		if d < 1e-8 {
			d = 1e-8
		}
		diff := d - t.target
		if t.repulse && diff >= 0 {
			continue
		}
		energy += t.k * diff * diff
		g := 2 * t.k * diff / d
		for k := 0; k < 3; k++ {
			grad[t.i][k] += g * dv[k]
			grad[t.j][k] -= g * dv[k]
		}
	}
	return energy
}
