// Package analysis implements the molecule analysis façade: stateless
// operations that validate notation input, delegate computation to the
// chemistry engine, and normalize results (including expected failures)
// into transport-friendly value records.
package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
	"github.com/molcraft/molcraft/pkg/errors"
	chemtypes "github.com/molcraft/molcraft/pkg/types/chem"
)

// Recorder receives per-operation timing observations.  The Prometheus
// implementation lives in the monitoring package; a nil Recorder disables
// instrumentation.
type Recorder interface {
	ObserveOperation(op string, duration time.Duration, failed bool)
}

// Service is the analysis façade.  It holds no mutable state; every
// operation is a pure function of its inputs plus the engine's numeric
// policy, so a single Service is safe for concurrent use.
type Service struct {
	engine   *chem.Engine
	log      logging.Logger
	recorder Recorder

	mcsTimeout       time.Duration
	conformerMaxIter int
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithMCSTimeout sets the default substructure-search bound applied when the
// caller passes a non-positive timeout.
func WithMCSTimeout(d time.Duration) Option {
	return func(s *Service) { s.mcsTimeout = d }
}

// WithConformerMaxIterations sets the default per-conformer minimization cap.
func WithConformerMaxIterations(n int) Option {
	return func(s *Service) { s.conformerMaxIter = n }
}

// NewService constructs the façade around an engine.
func NewService(engine *chem.Engine, opts ...Option) *Service {
	s := &Service{
		engine:           engine,
		log:              logging.NewNopLogger(),
		mcsTimeout:       10 * time.Second,
		conformerMaxIter: 200,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe emits one timing observation; call via defer with a start time.
func (s *Service) observe(op string, start time.Time, failed bool) {
	if s.recorder != nil {
		s.recorder.ObserveOperation(op, time.Since(start), failed)
	}
}

// fingerprintKind maps the public method enumeration onto the engine's
// dispatch constants.
func fingerprintKind(method chemtypes.FingerprintMethod) (chem.FingerprintKind, error) {
	switch method {
	case chemtypes.FPMorgan:
		return chem.FPKindMorgan, nil
	case chemtypes.FPTopological:
		return chem.FPKindPath, nil
	case chemtypes.FPAtomPair:
		return chem.FPKindAtomPair, nil
	case chemtypes.FPTorsion:
		return chem.FPKindTorsion, nil
	case chemtypes.FPMACCS:
		return chem.FPKindMACCS, nil
	default:
		return 0, errors.Newf(errors.CodeFingerprintUnsupported,
			"unknown fingerprint type: %s", method)
	}
}

// Parse validates a notation string and returns its descriptor record.
// Malformed notation yields {valid:false, error:...} rather than an error;
// on success all descriptor fields are populated eagerly.
func (s *Service) Parse(ctx context.Context, notation string) chemtypes.MoleculeRecord {
	start := time.Now()
	mol, err := chem.ParseSmiles(notation)
	if err != nil {
		s.observe("parse", start, true)
		return chemtypes.MoleculeRecord{
			Valid:  false,
			SMILES: notation,
			Error:  "Invalid SMILES: " + err.Error(),
		}
	}
	d := chem.ComputeDescriptors(mol)
	s.observe("parse", start, false)
	return chemtypes.MoleculeRecord{
		Valid:           true,
		SMILES:          notation,
		CanonicalSMILES: chem.WriteCanonical(mol),
		Formula:         d.Formula,
		MolecularWeight: d.MolWeight,
		AtomCount:       d.AtomCount,
		BondCount:       d.BondCount,
		RingCount:       d.RingCount,
		AromaticRings:   d.AromaticRings,
		RotatableBonds:  d.RotatableBonds,
		HBondDonors:     d.HBondDonors,
		HBondAcceptors:  d.HBondAcceptors,
		LogP:            d.LogP,
		TPSA:            d.TPSA,
	}
}

// Fingerprint generates the requested fingerprint for a molecule.  The
// record's length depends only on the method: configured width for hashed
// methods, the fixed key count for structural keys.
func (s *Service) Fingerprint(ctx context.Context, notation string, method chemtypes.FingerprintMethod) (*chemtypes.FingerprintRecord, error) {
	start := time.Now()
	kind, err := fingerprintKind(method)
	if err != nil {
		s.observe("fingerprint", start, true)
		return nil, err
	}
	mol, perr := chem.ParseSmiles(notation)
	if perr != nil {
		s.observe("fingerprint", start, true)
		return nil, errors.InvalidInput("failed to parse molecule").WithDetail(perr.Error())
	}
	fp, ferr := s.engine.Fingerprint(mol, kind)
	if ferr != nil {
		s.observe("fingerprint", start, true)
		return nil, errors.Wrap(ferr, errors.CodeFingerprintFailed, "fingerprint generation failed")
	}
	s.observe("fingerprint", start, false)
	return &chemtypes.FingerprintRecord{
		Method:      method,
		Fingerprint: fp.BitString(),
		Length:      fp.Size,
		SetBits:     fp.OnBits(),
	}, nil
}

// Similarity scores targets against the query fingerprint and returns those
// meeting the threshold, most similar first.  An invalid query fails the
// whole call; invalid targets are silently skipped per the documented
// contract (callers needing per-target diagnostics pre-validate with Parse).
func (s *Service) Similarity(ctx context.Context, query string, targets []string, threshold float64, method chemtypes.FingerprintMethod) ([]chemtypes.SimilarityResult, error) {
	start := time.Now()
	if threshold < 0 || threshold > 1 {
		s.observe("similarity", start, true)
		return nil, errors.Newf(errors.CodeThresholdInvalid,
			"threshold %v is outside [0, 1]", threshold)
	}
	kind, err := fingerprintKind(method)
	if err != nil {
		s.observe("similarity", start, true)
		return nil, err
	}
	qmol, perr := chem.ParseSmiles(query)
	if perr != nil {
		s.observe("similarity", start, true)
		return nil, errors.InvalidInput("failed to parse query molecule").WithDetail(perr.Error())
	}
	qfp, ferr := s.engine.Fingerprint(qmol, kind)
	if ferr != nil {
		s.observe("similarity", start, true)
		return nil, errors.Wrap(ferr, errors.CodeFingerprintFailed, "query fingerprint failed")
	}

	results := make([]chemtypes.SimilarityResult, 0, len(targets))
	for _, target := range targets {
		tmol, terr := chem.ParseSmiles(target)
		if terr != nil {
			continue
		}
		tfp, tferr := s.engine.Fingerprint(tmol, kind)
		if tferr != nil {
			continue
		}
		score, serr := chem.Tanimoto(qfp, tfp)
		if serr != nil {
			continue
		}
		if score >= threshold {
			results = append(results, chemtypes.SimilarityResult{SMILES: target, Similarity: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	s.observe("similarity", start, false)
	return results, nil
}

// CheckLipinski evaluates the Rule-of-Five descriptors with four independent
// pass flags and a violation tally; no combined cutoff is imposed.
func (s *Service) CheckLipinski(ctx context.Context, notation string) (*chemtypes.LipinskiReport, error) {
	start := time.Now()
	mol, err := chem.ParseSmiles(notation)
	if err != nil {
		s.observe("lipinski", start, true)
		return nil, errors.InvalidInput("failed to parse molecule").WithDetail(err.Error())
	}
	mw := chem.MolecularWeight(mol)
	logp := chem.CrippenLogP(mol)
	hbd := chem.HBondDonorCount(mol)
	hba := chem.HBondAcceptorCount(mol)

	report := &chemtypes.LipinskiReport{
		MolecularWeight: mw,
		LogP:            logp,
		HBondDonors:     hbd,
		HBondAcceptors:  hba,
		MWPass:          mw <= 500,
		LogPPass:        logp <= 5,
		HBDPass:         hbd <= 5,
		HBAPass:         hba <= 10,
	}
	for _, pass := range []bool{report.MWPass, report.LogPPass, report.HBDPass, report.HBAPass} {
		if !pass {
			report.Violations++
		}
	}
	s.observe("lipinski", start, false)
	return report, nil
}
