package chem

// atomicNumbers maps element symbols to atomic numbers for the elements the
// engine understands.  Symbol "*" (atomic number 0) is the dummy/attachment
// atom produced by bond cleavage.
var atomicNumbers = map[string]int{
	"*": 0, "H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16,
	"Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Ti": 22, "Cr": 24, "Mn": 25,
	"Fe": 26, "Co": 27, "Ni": 28, "Cu": 29, "Zn": 30, "As": 33, "Se": 34,
	"Br": 35, "Zr": 40, "Mo": 42, "Ru": 44, "Pd": 46, "Ag": 47, "Sn": 50,
	"Sb": 51, "Te": 52, "I": 53, "Pt": 78, "Au": 79, "Hg": 80, "Pb": 82,
}

// atomicMasses holds standard atomic weights, indexed by atomic number.
var atomicMasses = map[int]float64{
	0: 0.0, 1: 1.008, 2: 4.003, 3: 6.941, 4: 9.012, 5: 10.811, 6: 12.011,
	7: 14.007, 8: 15.999, 9: 18.998, 10: 20.180, 11: 22.990, 12: 24.305,
	13: 26.982, 14: 28.086, 15: 30.974, 16: 32.066, 17: 35.453, 18: 39.948,
	19: 39.098, 20: 40.078, 22: 47.867, 24: 51.996, 25: 54.938, 26: 55.845,
	27: 58.933, 28: 58.693, 29: 63.546, 30: 65.38, 33: 74.922, 34: 78.971,
	35: 79.904, 40: 91.224, 42: 95.95, 44: 101.07, 46: 106.42, 47: 107.868,
	50: 118.710, 51: 121.760, 52: 127.60, 53: 126.904, 78: 195.084,
	79: 196.967, 80: 200.592, 82: 207.2,
}

// symbolForAtomicNum is the reverse of atomicNumbers, built at init.
var symbolForAtomicNum = func() map[int]string {
	m := make(map[int]string, len(atomicNumbers))
	for sym, num := range atomicNumbers {
		m[num] = sym
	}
	return m
}()

// defaultValences lists the allowed valences (in increasing order) used for
// implicit-hydrogen assignment of organic-subset atoms written without
// brackets.  The first valence that accommodates the explicit bond-order sum
// is used.
var defaultValences = map[int][]int{
	5:  {3},       // B
	6:  {4},       // C
	7:  {3, 5},    // N
	8:  {2},       // O
	9:  {1},       // F
	15: {3, 5},    // P
	16: {2, 4, 6}, // S
	17: {1},       // Cl
	35: {1},       // Br
	53: {1},       // I
}

// organicSubset lists elements that may be written without brackets in
// SMILES notation.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols lists the lowercase symbols accepted as aromatic atoms.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S", "se": "Se", "as": "As",
}

// covalentRadii (Å) drive generic bond-length estimates in the 3D embedder's
// universal fallback parameter set.
var covalentRadii = map[int]float64{
	0: 0.7, 1: 0.31, 5: 0.84, 6: 0.76, 7: 0.71, 8: 0.66, 9: 0.57, 14: 1.11,
	15: 1.07, 16: 1.05, 17: 1.02, 34: 1.20, 35: 1.20, 53: 1.39,
}

// covalentRadius returns the covalent radius for an atomic number, with a
// generic fallback for elements outside the table.
func covalentRadius(atomicNum int) float64 {
	if r, ok := covalentRadii[atomicNum]; ok {
		return r
	}
	return 1.3
}

// atomicMass returns the standard atomic weight for an atomic number.
func atomicMass(atomicNum int) float64 {
	if m, ok := atomicMasses[atomicNum]; ok {
		return m
	}
	return 0.0
}
