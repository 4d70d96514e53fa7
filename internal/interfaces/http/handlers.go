// Package http exposes the analysis façade over a JSON REST surface.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/molcraft/molcraft/internal/analysis"
	"github.com/molcraft/molcraft/internal/config"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
	"github.com/molcraft/molcraft/pkg/errors"
	chemtypes "github.com/molcraft/molcraft/pkg/types/chem"
)

// Handlers carries the HTTP handler set and its collaborators.
type Handlers struct {
	svc *analysis.Service
	cfg *config.Config
	log logging.Logger
}

// NewHandlers constructs the handler set.
func NewHandlers(svc *analysis.Service, cfg *config.Config, log logging.Logger) *Handlers {
	return &Handlers{svc: svc, cfg: cfg, log: log}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorBody is the uniform error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	code := errors.GetCode(err)
	body.Error.Code = code.String()
	var ae *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		ae = e
	}
	if ae != nil {
		body.Error.Message = ae.Message
		body.Error.Detail = ae.Detail
	} else {
		body.Error.Message = err.Error()
	}
	writeJSON(w, errors.HTTPStatusForCode(code), body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, errors.InvalidParam("malformed JSON request body").WithCause(err))
		return false
	}
	return true
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness; the façade is stateless, so ready equals alive.
func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type parseRequest struct {
	SMILES string `json:"smiles"`
}

// Parse handles POST /api/v1/molecules/parse.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Parse(r.Context(), req.SMILES))
}

type renderRequest struct {
	SMILES string `json:"smiles"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Render handles POST /api/v1/molecules/render and returns PNG bytes.
func (h *Handlers) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Width <= 0 {
		req.Width = 400
	}
	if req.Height <= 0 {
		req.Height = 400
	}
	if req.Width > h.cfg.Analysis.RenderMaxWidth || req.Height > h.cfg.Analysis.RenderMaxHeight {
		writeError(w, errors.InvalidParam("requested image dimensions exceed the configured maximum"))
		return
	}
	png, err := h.svc.Render2D(r.Context(), req.SMILES, req.Width, req.Height)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type fingerprintRequest struct {
	SMILES string `json:"smiles"`
	Method string `json:"method"`
}

// Fingerprint handles POST /api/v1/molecules/fingerprint.
func (h *Handlers) Fingerprint(w http.ResponseWriter, r *http.Request) {
	var req fingerprintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Method == "" {
		req.Method = chemtypes.FPMorgan.String()
	}
	method, err := chemtypes.ParseFingerprintMethod(req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.svc.Fingerprint(r.Context(), req.SMILES, method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type similarityRequest struct {
	Query     string   `json:"query"`
	Targets   []string `json:"targets"`
	Threshold float64  `json:"threshold"`
	Method    string   `json:"method"`
}

// Similarity handles POST /api/v1/molecules/similarity.
func (h *Handlers) Similarity(w http.ResponseWriter, r *http.Request) {
	var req similarityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Method == "" {
		req.Method = chemtypes.FPMorgan.String()
	}
	method, err := chemtypes.ParseFingerprintMethod(req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := h.svc.Similarity(r.Context(), req.Query, req.Targets, req.Threshold, method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"count":   len(results),
		"results": results,
	})
}

type mcsRequest struct {
	SMILES         []string `json:"smiles"`
	TimeoutSeconds float64  `json:"timeout_seconds"`
}

// MCS handles POST /api/v1/molecules/mcs.
func (h *Handlers) MCS(w http.ResponseWriter, r *http.Request) {
	var req mcsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	timeout := time.Duration(req.TimeoutSeconds * float64(time.Second))
	writeJSON(w, http.StatusOK, h.svc.FindCommonSubstructure(r.Context(), req.SMILES, timeout))
}

type matchRequest struct {
	Pattern string   `json:"pattern"`
	Targets []string `json:"targets"`
}

// Match handles POST /api/v1/molecules/match.
func (h *Handlers) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.MatchPattern(r.Context(), req.Pattern, req.Targets))
}

type reactionRequest struct {
	Reaction       string     `json:"reaction"`
	ReactantSets   [][]string `json:"reactant_sets"`
	TimeoutSeconds float64    `json:"timeout_seconds"`
}

// React handles POST /api/v1/reactions/apply.
func (h *Handlers) React(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	timeout := time.Duration(req.TimeoutSeconds * float64(time.Second))
	writeJSON(w, http.StatusOK, h.svc.ApplyReaction(r.Context(), req.Reaction, req.ReactantSets, timeout))
}

type retroRequest struct {
	SMILES         string `json:"smiles"`
	MaxSuggestions int    `json:"max_suggestions"`
}

// Retro handles POST /api/v1/reactions/retro.
func (h *Handlers) Retro(w http.ResponseWriter, r *http.Request) {
	var req retroRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MaxSuggestions <= 0 {
		req.MaxSuggestions = 10
	}
	writeJSON(w, http.StatusOK, h.svc.SuggestRetrosynthesis(r.Context(), req.SMILES, req.MaxSuggestions))
}

type conformersRequest struct {
	SMILES        string `json:"smiles"`
	Count         int    `json:"count"`
	MaxIterations int    `json:"max_iterations"`
}

// Conformers handles POST /api/v1/molecules/conformers.
func (h *Handlers) Conformers(w http.ResponseWriter, r *http.Request) {
	var req conformersRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	writeJSON(w, http.StatusOK,
		h.svc.GenerateConformers(r.Context(), req.SMILES, req.Count, req.MaxIterations))
}

type stereoRequest struct {
	SMILES string `json:"smiles"`
}

// Stereo handles POST /api/v1/molecules/stereo.
func (h *Handlers) Stereo(w http.ResponseWriter, r *http.Request) {
	var req stereoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.AnalyzeStereochemistry(r.Context(), req.SMILES))
}

type lipinskiRequest struct {
	SMILES string `json:"smiles"`
}

// Lipinski handles POST /api/v1/molecules/lipinski.
func (h *Handlers) Lipinski(w http.ResponseWriter, r *http.Request) {
	var req lipinskiRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report, err := h.svc.CheckLipinski(r.Context(), req.SMILES)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
