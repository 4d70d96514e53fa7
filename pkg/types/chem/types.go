// Package chem defines the transient value records returned by the molecule
// analysis façade.  Every record is created fresh per call, carries no
// cross-request identity, and is discarded by the caller after display.
package chem

import (
	"github.com/molcraft/molcraft/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fingerprint method enumeration
// ─────────────────────────────────────────────────────────────────────────────

// FingerprintMethod identifies which fingerprint algorithm is used.
// The set is closed; unknown values are rejected at the boundary with
// CodeFingerprintUnsupported rather than silently defaulted.
type FingerprintMethod string

const (
	// FPMorgan is the circular (ECFP-like) fingerprint, hashed to 2048 bits.
	FPMorgan FingerprintMethod = "morgan"
	// FPTopological is the path-based topological fingerprint, 2048 bits.
	FPTopological FingerprintMethod = "rdkit"
	// FPAtomPair is the hashed atom-pair fingerprint, 2048 bits.
	FPAtomPair FingerprintMethod = "atompair"
	// FPTorsion is the hashed topological-torsion fingerprint, 2048 bits.
	FPTorsion FingerprintMethod = "torsion"
	// FPMACCS is the 166-key structural-keys fingerprint; its width is fixed
	// by the key set, not by configuration.
	FPMACCS FingerprintMethod = "maccs"
)

// IsValid checks whether the method is one of the supported set.
func (m FingerprintMethod) IsValid() bool {
	switch m {
	case FPMorgan, FPTopological, FPAtomPair, FPTorsion, FPMACCS:
		return true
	default:
		return false
	}
}

// String returns the string representation of the method.
func (m FingerprintMethod) String() string { return string(m) }

// ParseFingerprintMethod parses a string into a FingerprintMethod.
func ParseFingerprintMethod(s string) (FingerprintMethod, error) {
	m := FingerprintMethod(s)
	if m.IsValid() {
		return m, nil
	}
	return "", errors.Newf(errors.CodeFingerprintUnsupported, "unknown fingerprint type: %s", s)
}

// AllFingerprintMethods returns the closed set of supported methods.
func AllFingerprintMethods() []FingerprintMethod {
	return []FingerprintMethod{FPMorgan, FPTopological, FPAtomPair, FPTorsion, FPMACCS}
}

// ─────────────────────────────────────────────────────────────────────────────
// Status tags
// ─────────────────────────────────────────────────────────────────────────────

// Result status strings shared by the multi-outcome operations.  Expected
// negative outcomes (no products, insufficient input, embedding failure) are
// data, not errors, and travel in these fields.
const (
	StatusSuccess            = "Success"
	StatusNoProducts         = "No products"
	StatusInvalidSMILES      = "Invalid SMILES"
	StatusInvalidSMARTS      = "Invalid SMARTS"
	StatusInvalidReaction    = "Invalid reaction SMARTS"
	StatusInvalidReactant    = "Invalid reactant SMILES"
	StatusEmbeddingFailed    = "Embedding failed"
	StatusInsufficientInput  = "Need at least two valid molecules"
	StatusTimeoutPartial     = "Timeout (partial result)"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value records
// ─────────────────────────────────────────────────────────────────────────────

// MoleculeRecord holds the parsed structure and eagerly computed descriptors
// for a single notation string.  Fields other than Valid and Error are only
// meaningful when Valid is true.
type MoleculeRecord struct {
	Valid           bool    `json:"valid"`
	SMILES          string  `json:"smiles"`
	CanonicalSMILES string  `json:"canonical_smiles,omitempty"`
	Formula         string  `json:"formula,omitempty"`
	MolecularWeight float64 `json:"molecular_weight,omitempty"`
	AtomCount       int     `json:"atom_count,omitempty"`
	BondCount       int     `json:"bond_count,omitempty"`
	RingCount       int     `json:"ring_count,omitempty"`
	AromaticRings   int     `json:"aromatic_rings,omitempty"`
	RotatableBonds  int     `json:"rotatable_bonds,omitempty"`
	HBondDonors     int     `json:"h_bond_donors,omitempty"`
	HBondAcceptors  int     `json:"h_bond_acceptors,omitempty"`
	LogP            float64 `json:"logp,omitempty"`
	TPSA            float64 `json:"tpsa,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// FingerprintRecord is a fixed-length bit sequence tagged with its generation
// method.  Length depends only on the method, never on the input molecule.
type FingerprintRecord struct {
	Method      FingerprintMethod `json:"type"`
	Fingerprint string            `json:"fingerprint"` // "0"/"1" bit string
	Length      int               `json:"length"`
	SetBits     int               `json:"set_bits"`
}

// SimilarityResult pairs a target notation with its Tanimoto score against
// the query fingerprint.  Only emitted when the score meets the caller's
// threshold.
type SimilarityResult struct {
	SMILES     string  `json:"smiles"`
	Similarity float64 `json:"similarity"`
}

// MCSResult describes the maximum common substructure of a molecule set.
type MCSResult struct {
	SMARTS       string `json:"smarts"`
	SMARTSSmiles string `json:"smarts_smiles"`
	NumAtoms     int    `json:"num_atoms"`
	NumBonds     int    `json:"num_bonds"`
	NumMolecules int    `json:"num_molecules"`
	Status       string `json:"status"`
}

// PatternTargetMatch is the per-target outcome of a pattern match.
//
// Parseable distinguishes a target that failed to parse from one that parsed
// but simply has no match; both legacy fields (Matched=false, MatchCount=0)
// read identically in those two cases, so consumers needing per-target
// diagnostics must check Parseable.
type PatternTargetMatch struct {
	SMILES     string  `json:"smiles"`
	Parseable  bool    `json:"parseable"`
	Matched    bool    `json:"matched"`
	MatchCount int     `json:"match_count"`
	Matches    [][]int `json:"matches"`
}

// PatternMatchResult aggregates the per-target outcomes of matching one
// pattern against a batch of targets.
type PatternMatchResult struct {
	Pattern    string               `json:"pattern"`
	Matches    []PatternTargetMatch `json:"matches"`
	NumMatched int                  `json:"num_matched"`
	Status     string               `json:"status"`
}

// ReactionResult is the outcome for a single reactant set.  Products holds
// one canonical-notation string per distinct product combination, each with
// its members sorted lexicographically for determinism.
type ReactionResult struct {
	Reactants []string `json:"reactants"`
	Products  []string `json:"products"`
	Status    string   `json:"status"`
}

// ReactionOutcome wraps the per-set results of applying one reaction rule.
type ReactionOutcome struct {
	Reaction string           `json:"reaction"`
	Results  []ReactionResult `json:"results"`
	Status   string           `json:"status"`
}

// Disconnection identifies a cleavable single bond and the two fragments
// produced by cutting it.
type Disconnection struct {
	BondIndex int      `json:"bond_idx"`
	Fragments []string `json:"fragments"`
}

// RetrosynthesisPlan lists naive one-bond disconnections for a target.
// This is a single-step heuristic, not a synthesis-route search.
type RetrosynthesisPlan struct {
	Target      string          `json:"target"`
	Suggestions []Disconnection `json:"suggestions"`
	Status      string          `json:"status"`
}

// ConformerEnsemble reports generated 3D conformers and their relative
// energies in generation order (not sorted).
type ConformerEnsemble struct {
	NumConformers int       `json:"num_conformers"`
	Energies      []float64 `json:"energies"`
	Status        string    `json:"status"`
}

// StereoReport summarizes the stereochemical features of a molecule.
//
// HasStereo carries "Yes"/"No" on success and an error description on
// analysis failure; Status carries the clean machine-readable signal.
type StereoReport struct {
	ChiralCenters        int    `json:"chiral_centers"`
	PossibleStereoisomers int   `json:"possible_stereoisomers"`
	HasStereo            string `json:"has_stereo"`
	Status               string `json:"status"`
}

// LipinskiReport holds the four Rule-of-Five descriptors, the four
// independent pass flags, and the violation tally.  No combined cutoff is
// imposed; callers decide (commonly "violations <= 1").
type LipinskiReport struct {
	MolecularWeight float64 `json:"molecular_weight"`
	LogP            float64 `json:"logp"`
	HBondDonors     int     `json:"h_bond_donors"`
	HBondAcceptors  int     `json:"h_bond_acceptors"`
	MWPass          bool    `json:"mw_pass"`
	LogPPass        bool    `json:"logp_pass"`
	HBDPass         bool    `json:"hbd_pass"`
	HBAPass         bool    `json:"hba_pass"`
	Violations      int     `json:"violations"`
}
