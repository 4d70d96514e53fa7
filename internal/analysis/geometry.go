package analysis

import (
	"context"
	"time"

	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/pkg/errors"
	chemtypes "github.com/molcraft/molcraft/pkg/types/chem"
)

// Render2D draws a molecule into a width x height PNG.  Layout is
// recomputed deterministically on every call; nothing is cached.  Pixel
// bounds are the caller's responsibility.
func (s *Service) Render2D(ctx context.Context, notation string, width, height int) ([]byte, error) {
	start := time.Now()
	mol, err := chem.ParseSmiles(notation)
	if err != nil {
		s.observe("render", start, true)
		return nil, errors.Wrap(err, errors.CodeRenderFailed, "failed to parse molecule for rendering")
	}
	png, rerr := chem.RenderPNG(mol, width, height)
	if rerr != nil {
		s.observe("render", start, true)
		return nil, errors.Wrap(rerr, errors.CodeRenderFailed, "image generation failed")
	}
	s.observe("render", start, false)
	return png, nil
}

// GenerateConformers embeds count 3D geometries with a deterministic seed
// and minimizes each, reporting energies in generation order.  Embedding
// failure is a legitimate negative outcome carried in the status, not an
// error.  A non-positive maxIterations falls back to the service default.
func (s *Service) GenerateConformers(ctx context.Context, notation string, count, maxIterations int) chemtypes.ConformerEnsemble {
	start := time.Now()
	mol, err := chem.ParseSmiles(notation)
	if err != nil {
		s.observe("conformers", start, true)
		return chemtypes.ConformerEnsemble{Status: chemtypes.StatusInvalidSMILES}
	}
	if maxIterations <= 0 {
		maxIterations = s.conformerMaxIter
	}
	res, eerr := chem.GenerateConformers(mol, count, maxIterations)
	if eerr != nil {
		s.observe("conformers", start, false)
		return chemtypes.ConformerEnsemble{Status: chemtypes.StatusEmbeddingFailed}
	}
	ensemble := chemtypes.ConformerEnsemble{
		NumConformers: len(res.Conformers),
		Energies:      make([]float64, 0, len(res.Conformers)),
		Status:        chemtypes.StatusSuccess,
	}
	for _, c := range res.Conformers {
		ensemble.Energies = append(ensemble.Energies, c.Energy)
	}
	s.observe("conformers", start, false)
	return ensemble
}

// AnalyzeStereochemistry reports chiral centers (assigned and potential),
// whether any stereo descriptor is explicitly set, and the possible
// stereoisomer count.  A parse failure is carried in the has_stereo field
// as an error string, with the clean signal in Status.
func (s *Service) AnalyzeStereochemistry(ctx context.Context, notation string) chemtypes.StereoReport {
	start := time.Now()
	mol, err := chem.ParseSmiles(notation)
	if err != nil {
		s.observe("stereo", start, true)
		return chemtypes.StereoReport{
			HasStereo: "Error: " + err.Error(),
			Status:    chemtypes.StatusInvalidSMILES,
		}
	}
	summary := chem.AnalyzeStereo(mol)
	report := chemtypes.StereoReport{
		ChiralCenters:         len(summary.ChiralCenters),
		PossibleStereoisomers: summary.PossibleIsomers,
		HasStereo:             "No",
		Status:                chemtypes.StatusSuccess,
	}
	if summary.HasStereo {
		report.HasStereo = "Yes"
	}
	s.observe("stereo", start, false)
	return report
}
