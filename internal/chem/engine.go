// Package chem implements the native cheminformatics engine: SMILES
// parsing, canonicalization, descriptors, fingerprints, substructure and
// reaction machinery, 3D embedding, and 2D depiction.  The package is
// stateless; an Engine only carries numeric policy.
package chem

import "fmt"

// Engine bundles the numeric policy shared by fingerprint generation.
// The zero value is unusable; construct with NewEngine.
type Engine struct {
	fingerprintBits int
	morganRadius    int
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithFingerprintBits sets the hashed-fingerprint width.
func WithFingerprintBits(n int) EngineOption {
	return func(e *Engine) { e.fingerprintBits = n }
}

// WithMorganRadius sets the circular-fingerprint neighborhood radius.
func WithMorganRadius(r int) EngineOption {
	return func(e *Engine) { e.morganRadius = r }
}

// NewEngine returns an Engine with the standard policy (2048-bit hashed
// fingerprints, radius-2 circular environments) unless overridden.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{fingerprintBits: 2048, morganRadius: 2}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FingerprintBits returns the configured hashed-fingerprint width.
func (e *Engine) FingerprintBits() int { return e.fingerprintBits }

// FingerprintKind selects one of the engine's fingerprint algorithms.
type FingerprintKind int

const (
	FPKindMorgan FingerprintKind = iota
	FPKindPath
	FPKindAtomPair
	FPKindTorsion
	FPKindMACCS
)

// Fingerprint dispatches to the requested algorithm.  Hashed kinds use the
// engine's configured width; the structural-keys kind has its own fixed
// width.
func (e *Engine) Fingerprint(m *Mol, kind FingerprintKind) (*Fingerprint, error) {
	switch kind {
	case FPKindMorgan:
		return MorganFingerprint(m, e.morganRadius, e.fingerprintBits), nil
	case FPKindPath:
		return PathFingerprint(m, e.fingerprintBits), nil
	case FPKindAtomPair:
		return AtomPairFingerprint(m, e.fingerprintBits), nil
	case FPKindTorsion:
		return TorsionFingerprint(m, e.fingerprintBits), nil
	case FPKindMACCS:
		return MACCSFingerprint(m), nil
	default:
		return nil, fmt.Errorf("unknown fingerprint kind %d", kind)
	}
}
