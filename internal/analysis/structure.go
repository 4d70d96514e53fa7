package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
	chemtypes "github.com/molcraft/molcraft/pkg/types/chem"
)

// FindCommonSubstructure searches for the maximum common substructure of
// the given molecules.  Unparseable notations are filtered out; fewer than
// two survivors is a normal "insufficient input" outcome, not an error.
// A non-positive timeout falls back to the service default; expiry returns
// the best partial result found with its own status.
func (s *Service) FindCommonSubstructure(ctx context.Context, notations []string, timeout time.Duration) chemtypes.MCSResult {
	start := time.Now()
	if timeout <= 0 {
		timeout = s.mcsTimeout
	}

	var mols []*chem.Mol
	for _, n := range notations {
		mol, err := chem.ParseSmiles(n)
		if err != nil {
			s.log.Debug("skipping unparseable molecule in substructure search",
				logging.String("notation", n), logging.Err(err))
			continue
		}
		mols = append(mols, mol)
	}
	if len(mols) < 2 {
		s.observe("mcs", start, false)
		return chemtypes.MCSResult{
			NumMolecules: len(mols),
			Status:       chemtypes.StatusInsufficientInput,
		}
	}

	res := chem.FindMCS(mols, time.Now().Add(timeout))
	out := chemtypes.MCSResult{
		NumAtoms:     res.AtomCount,
		NumBonds:     res.BondCount,
		NumMolecules: len(mols),
		Status:       chemtypes.StatusSuccess,
	}
	if res.Fragment != nil {
		frag := chem.WriteCanonical(res.Fragment)
		out.SMARTS = frag
		out.SMARTSSmiles = frag
	}
	if res.TimedOut {
		out.Status = chemtypes.StatusTimeoutPartial
	}
	s.observe("mcs", start, false)
	return out
}

// MatchPattern matches a structural pattern against a batch of targets.
// An uncompilable pattern yields a zero-result aggregate with an "invalid
// pattern" status.  Targets that fail to parse are recorded with
// Parseable=false so callers can tell parse failure from a clean non-match.
func (s *Service) MatchPattern(ctx context.Context, pattern string, targets []string) chemtypes.PatternMatchResult {
	start := time.Now()
	query, err := chem.ParsePattern(pattern)
	if err != nil {
		s.observe("match", start, true)
		return chemtypes.PatternMatchResult{
			Pattern: pattern,
			Status:  chemtypes.StatusInvalidSMARTS,
		}
	}

	out := chemtypes.PatternMatchResult{
		Pattern: pattern,
		Status:  chemtypes.StatusSuccess,
		Matches: make([]chemtypes.PatternTargetMatch, 0, len(targets)),
	}
	for _, target := range targets {
		mol, perr := chem.ParseSmiles(target)
		if perr != nil {
			out.Matches = append(out.Matches, chemtypes.PatternTargetMatch{
				SMILES: target, Parseable: false,
			})
			continue
		}
		matches := chem.SubstructMatches(mol, query)
		entry := chemtypes.PatternTargetMatch{
			SMILES:     target,
			Parseable:  true,
			Matched:    len(matches) > 0,
			MatchCount: len(matches),
			Matches:    matches,
		}
		if entry.Matched {
			out.NumMatched++
		}
		out.Matches = append(out.Matches, entry)
	}
	s.observe("match", start, false)
	return out
}

// ApplyReaction applies a reaction transform to each reactant set.  An
// invalid reaction pattern short-circuits the whole call; an unparseable
// reactant invalidates only its own set.  Product combinations are
// canonicalized, sorted, and joined with "." for determinism.  A deadline
// covers the whole batch; sets not reached before expiry are dropped and
// the outcome is flagged as partial.
func (s *Service) ApplyReaction(ctx context.Context, reactionPattern string, reactantSets [][]string, timeout time.Duration) chemtypes.ReactionOutcome {
	start := time.Now()
	rxn, err := chem.ParseReaction(reactionPattern)
	if err != nil {
		s.observe("reaction", start, true)
		return chemtypes.ReactionOutcome{
			Reaction: reactionPattern,
			Status:   chemtypes.StatusInvalidReaction,
		}
	}
	if timeout <= 0 {
		timeout = s.mcsTimeout
	}
	deadline := time.Now().Add(timeout)

	out := chemtypes.ReactionOutcome{
		Reaction: reactionPattern,
		Status:   chemtypes.StatusSuccess,
		Results:  make([]chemtypes.ReactionResult, 0, len(reactantSets)),
	}
	for _, set := range reactantSets {
		if time.Now().After(deadline) {
			out.Status = chemtypes.StatusTimeoutPartial
			break
		}
		result := chemtypes.ReactionResult{Reactants: set}
		mols := make([]*chem.Mol, 0, len(set))
		parseFailed := false
		for _, notation := range set {
			mol, perr := chem.ParseSmiles(notation)
			if perr != nil {
				parseFailed = true
				break
			}
			mols = append(mols, mol)
		}
		if parseFailed {
			result.Status = chemtypes.StatusInvalidReactant
			out.Results = append(out.Results, result)
			continue
		}

		productSets := rxn.Run(mols)
		if len(productSets) == 0 {
			result.Status = chemtypes.StatusNoProducts
		} else {
			result.Status = chemtypes.StatusSuccess
			for _, products := range productSets {
				result.Products = append(result.Products, strings.Join(products, "."))
			}
		}
		out.Results = append(out.Results, result)
	}
	s.observe("reaction", start, false)
	return out
}

// SuggestRetrosynthesis enumerates naive one-bond disconnections: each
// acyclic single bond is cleaved independently and the two resulting
// fragments reported, up to maxSuggestions.  No scoring, no multi-step
// planning, no feasibility filtering.
func (s *Service) SuggestRetrosynthesis(ctx context.Context, notation string, maxSuggestions int) chemtypes.RetrosynthesisPlan {
	start := time.Now()
	mol, err := chem.ParseSmiles(notation)
	if err != nil {
		s.observe("retro", start, true)
		return chemtypes.RetrosynthesisPlan{
			Target: notation,
			Status: chemtypes.StatusInvalidSMILES,
		}
	}
	plan := chemtypes.RetrosynthesisPlan{
		Target: notation,
		Status: chemtypes.StatusSuccess,
	}
	for _, bi := range chem.CleavableBonds(mol) {
		if maxSuggestions > 0 && len(plan.Suggestions) >= maxSuggestions {
			break
		}
		plan.Suggestions = append(plan.Suggestions, chemtypes.Disconnection{
			BondIndex: bi,
			Fragments: chem.CleaveBond(mol, bi),
		})
	}
	s.observe("retro", start, false)
	return plan
}
