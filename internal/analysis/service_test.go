package analysis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/pkg/errors"
	chemtypes "github.com/molcraft/molcraft/pkg/types/chem"
)

func newTestService() *Service {
	return NewService(chem.NewEngine())
}

func TestParseEthanol(t *testing.T) {
	rec := newTestService().Parse(context.Background(), "CCO")

	assert.True(t, rec.Valid)
	assert.Equal(t, "CCO", rec.SMILES)
	assert.Equal(t, "CCO", rec.CanonicalSMILES)
	assert.Equal(t, "C2H6O", rec.Formula)
	assert.Equal(t, 3, rec.AtomCount)
	assert.Equal(t, 2, rec.BondCount)
	assert.Equal(t, 0, rec.RingCount)
	assert.InDelta(t, 46.07, rec.MolecularWeight, 0.01)
	assert.Empty(t, rec.Error)
}

func TestParseInvalidNotation(t *testing.T) {
	rec := newTestService().Parse(context.Background(), "invalid((")

	assert.False(t, rec.Valid)
	assert.Equal(t, "invalid((", rec.SMILES)
	assert.NotEmpty(t, rec.Error)
	assert.Empty(t, rec.CanonicalSMILES)
	assert.Zero(t, rec.AtomCount)
}

func TestParseCanonicalIsIdempotent(t *testing.T) {
	svc := newTestService()
	first := svc.Parse(context.Background(), "OCC")
	require.True(t, first.Valid)
	second := svc.Parse(context.Background(), first.CanonicalSMILES)
	require.True(t, second.Valid)
	assert.Equal(t, first.CanonicalSMILES, second.CanonicalSMILES)
}

func TestFingerprintWidths(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, method := range chemtypes.AllFingerprintMethods() {
		for _, smiles := range []string{"CCO", "c1ccccc1"} {
			rec, err := svc.Fingerprint(ctx, smiles, method)
			require.NoError(t, err, "%s on %s", method, smiles)
			want := 2048
			if method == chemtypes.FPMACCS {
				want = 166
			}
			assert.Equal(t, want, rec.Length)
			assert.Len(t, rec.Fingerprint, want)
			assert.Equal(t, method, rec.Method)
			assert.Greater(t, rec.SetBits, 0)
		}
	}
}

func TestFingerprintUnsupportedMethod(t *testing.T) {
	_, err := newTestService().Fingerprint(context.Background(), "CCO", chemtypes.FingerprintMethod("bogus"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeFingerprintUnsupported, errors.GetCode(err))
}

func TestFingerprintInvalidNotation(t *testing.T) {
	_, err := newTestService().Fingerprint(context.Background(), "invalid((", chemtypes.FPMorgan)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSMILES, errors.GetCode(err))
}

func TestSimilaritySelfMatch(t *testing.T) {
	results, err := newTestService().Similarity(context.Background(),
		"CCO", []string{"CCO", "CCCC"}, 0.5, chemtypes.FPMorgan)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "CCO", results[0].SMILES)
	assert.Equal(t, 1.0, results[0].Similarity)
}

func TestSimilarityOrderedDescending(t *testing.T) {
	results, err := newTestService().Similarity(context.Background(),
		"CCO", []string{"CCCC", "CCO", "CCN"}, 0.0, chemtypes.FPMorgan)
	require.NoError(t, err)

	require.Len(t, results, 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
	}
	assert.Equal(t, "CCO", results[0].SMILES)
}

func TestSimilaritySkipsInvalidTargets(t *testing.T) {
	results, err := newTestService().Similarity(context.Background(),
		"CCO", []string{"invalid((", "CCO"}, 0.5, chemtypes.FPMorgan)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "CCO", results[0].SMILES)
}

func TestSimilarityInvalidQueryFailsFast(t *testing.T) {
	_, err := newTestService().Similarity(context.Background(),
		"invalid((", []string{"CCO"}, 0.5, chemtypes.FPMorgan)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSMILES, errors.GetCode(err))
}

func TestSimilarityThresholdRange(t *testing.T) {
	_, err := newTestService().Similarity(context.Background(),
		"CCO", []string{"CCO"}, 1.5, chemtypes.FPMorgan)
	require.Error(t, err)
	assert.Equal(t, errors.CodeThresholdInvalid, errors.GetCode(err))
}

func TestFindCommonSubstructureBenzenePhenol(t *testing.T) {
	res := newTestService().FindCommonSubstructure(context.Background(),
		[]string{"c1ccccc1", "Oc1ccccc1"}, 10*time.Second)

	assert.Equal(t, chemtypes.StatusSuccess, res.Status)
	assert.Equal(t, 2, res.NumMolecules)
	assert.GreaterOrEqual(t, res.NumAtoms, 6)
	assert.Equal(t, "c1ccccc1", res.SMARTS)
	assert.Equal(t, res.SMARTS, res.SMARTSSmiles)
}

func TestFindCommonSubstructureInsufficientInput(t *testing.T) {
	res := newTestService().FindCommonSubstructure(context.Background(),
		[]string{"c1ccccc1", "invalid(("}, time.Second)

	assert.Equal(t, chemtypes.StatusInsufficientInput, res.Status)
	assert.Equal(t, 1, res.NumMolecules)
	assert.Zero(t, res.NumAtoms)
	assert.Zero(t, res.NumBonds)
}

func TestMatchPatternAggregates(t *testing.T) {
	res := newTestService().MatchPattern(context.Background(),
		"C=O", []string{"CC(=O)O", "CCO", "invalid(("})

	assert.Equal(t, chemtypes.StatusSuccess, res.Status)
	assert.Equal(t, 1, res.NumMatched)
	require.Len(t, res.Matches, 3)

	assert.True(t, res.Matches[0].Parseable)
	assert.True(t, res.Matches[0].Matched)
	assert.Equal(t, 1, res.Matches[0].MatchCount)

	assert.True(t, res.Matches[1].Parseable)
	assert.False(t, res.Matches[1].Matched)
	assert.Zero(t, res.Matches[1].MatchCount)

	// Parse failure is distinguishable from a clean non-match.
	assert.False(t, res.Matches[2].Parseable)
	assert.False(t, res.Matches[2].Matched)
	assert.Zero(t, res.Matches[2].MatchCount)
}

func TestMatchPatternInvalidPattern(t *testing.T) {
	res := newTestService().MatchPattern(context.Background(), "c1ccc", []string{"CCO"})
	assert.Equal(t, chemtypes.StatusInvalidSMARTS, res.Status)
	assert.Empty(t, res.Matches)
	assert.Zero(t, res.NumMatched)
}

func TestApplyReactionHappyPath(t *testing.T) {
	out := newTestService().ApplyReaction(context.Background(),
		"[C:1][O:2]>>[C:1].[O:2]", [][]string{{"CO"}}, 10*time.Second)

	assert.Equal(t, chemtypes.StatusSuccess, out.Status)
	require.Len(t, out.Results, 1)
	assert.Equal(t, chemtypes.StatusSuccess, out.Results[0].Status)
	assert.Equal(t, []string{"C.O"}, out.Results[0].Products)
}

func TestApplyReactionPerSetOutcomes(t *testing.T) {
	out := newTestService().ApplyReaction(context.Background(),
		"[C:1][O:2]>>[C:1].[O:2]",
		[][]string{{"CO"}, {"invalid(("}, {"CC"}},
		10*time.Second)

	require.Len(t, out.Results, 3)
	assert.Equal(t, chemtypes.StatusSuccess, out.Results[0].Status)
	assert.Equal(t, chemtypes.StatusInvalidReactant, out.Results[1].Status)
	assert.Equal(t, chemtypes.StatusNoProducts, out.Results[2].Status)
}

func TestApplyReactionInvalidPattern(t *testing.T) {
	out := newTestService().ApplyReaction(context.Background(),
		"not a reaction", [][]string{{"CO"}}, time.Second)
	assert.Equal(t, chemtypes.StatusInvalidReaction, out.Status)
	assert.Empty(t, out.Results)
}

func TestSuggestRetrosynthesis(t *testing.T) {
	plan := newTestService().SuggestRetrosynthesis(context.Background(), "CCCC", 10)

	assert.Equal(t, chemtypes.StatusSuccess, plan.Status)
	require.Len(t, plan.Suggestions, 3)
	for _, s := range plan.Suggestions {
		assert.Len(t, s.Fragments, 2)
	}
}

func TestSuggestRetrosynthesisRespectsCap(t *testing.T) {
	plan := newTestService().SuggestRetrosynthesis(context.Background(), "CCCC", 2)
	assert.Len(t, plan.Suggestions, 2)
}

func TestSuggestRetrosynthesisInvalidInput(t *testing.T) {
	plan := newTestService().SuggestRetrosynthesis(context.Background(), "invalid((", 5)
	assert.Equal(t, chemtypes.StatusInvalidSMILES, plan.Status)
	assert.Empty(t, plan.Suggestions)
}

func TestGenerateConformersEnsemble(t *testing.T) {
	res := newTestService().GenerateConformers(context.Background(), "CCO", 5, 0)

	assert.Equal(t, chemtypes.StatusSuccess, res.Status)
	assert.Equal(t, 5, res.NumConformers)
	assert.Len(t, res.Energies, 5)
}

func TestGenerateConformersDeterministic(t *testing.T) {
	svc := newTestService()
	a := svc.GenerateConformers(context.Background(), "CCO", 3, 100)
	b := svc.GenerateConformers(context.Background(), "CCO", 3, 100)
	assert.Equal(t, a.Energies, b.Energies)
}

func TestGenerateConformersInvalidNotation(t *testing.T) {
	res := newTestService().GenerateConformers(context.Background(), "invalid((", 3, 100)
	assert.Equal(t, chemtypes.StatusInvalidSMILES, res.Status)
	assert.Zero(t, res.NumConformers)
}

func TestAnalyzeStereochemistry(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	unassigned := svc.AnalyzeStereochemistry(ctx, "CC(N)C(=O)O")
	assert.Equal(t, chemtypes.StatusSuccess, unassigned.Status)
	assert.Equal(t, 1, unassigned.ChiralCenters)
	assert.Equal(t, 2, unassigned.PossibleStereoisomers)
	assert.Equal(t, "No", unassigned.HasStereo)

	assigned := svc.AnalyzeStereochemistry(ctx, "C[C@H](N)C(=O)O")
	assert.Equal(t, "Yes", assigned.HasStereo)
	assert.Equal(t, 1, assigned.ChiralCenters)
}

func TestAnalyzeStereochemistryInvalidNotation(t *testing.T) {
	report := newTestService().AnalyzeStereochemistry(context.Background(), "invalid((")
	assert.Equal(t, chemtypes.StatusInvalidSMILES, report.Status)
	assert.Contains(t, report.HasStereo, "Error")
}

func TestCheckLipinskiAspirin(t *testing.T) {
	report, err := newTestService().CheckLipinski(context.Background(), "CC(=O)Oc1ccccc1C(=O)O")
	require.NoError(t, err)

	assert.True(t, report.MWPass)
	assert.True(t, report.LogPPass)
	assert.True(t, report.HBDPass)
	assert.True(t, report.HBAPass)
	assert.Zero(t, report.Violations)
	assert.InDelta(t, 180.16, report.MolecularWeight, 0.05)
	assert.Equal(t, 1, report.HBondDonors)
	assert.Equal(t, 4, report.HBondAcceptors)
}

func TestCheckLipinskiInvalidNotation(t *testing.T) {
	_, err := newTestService().CheckLipinski(context.Background(), "invalid((")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidSMILES, errors.GetCode(err))
}

func TestRender2DProducesPNG(t *testing.T) {
	png, err := newTestService().Render2D(context.Background(), "c1ccccc1", 300, 300)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte{0x89, 0x50, 0x4E, 0x47}))
}

func TestRender2DInvalidNotation(t *testing.T) {
	_, err := newTestService().Render2D(context.Background(), "invalid((", 300, 300)
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailed, errors.GetCode(err))
}
