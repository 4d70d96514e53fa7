package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molcraft/molcraft/internal/analysis"
	"github.com/molcraft/molcraft/internal/chem"
	"github.com/molcraft/molcraft/internal/config"
	"github.com/molcraft/molcraft/internal/infrastructure/monitoring/logging"
)

func newTestRouter() http.Handler {
	cfg := config.NewDefaultConfig()
	log := logging.NewNopLogger()
	svc := analysis.NewService(chem.NewEngine())
	return NewRouter(NewHandlers(svc, cfg, log), cfg, log, nil)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter()
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestParseEndpoint(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/parse", `{"smiles":"CCO"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Valid           bool   `json:"valid"`
		CanonicalSMILES string `json:"canonical_smiles"`
		Formula         string `json:"formula"`
		AtomCount       int    `json:"atom_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.Equal(t, "CCO", body.CanonicalSMILES)
	assert.Equal(t, "C2H6O", body.Formula)
	assert.Equal(t, 3, body.AtomCount)
}

func TestParseEndpointInvalidNotationStillOK(t *testing.T) {
	// Parse reports malformed notation in the record body, not via HTTP status.
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/parse", `{"smiles":"invalid(("}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Valid bool   `json:"valid"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	assert.NotEmpty(t, body.Error)
}

func TestParseEndpointMalformedJSON(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/parse", `{"smiles":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFingerprintEndpointUnknownMethod(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/fingerprint",
		`{"smiles":"CCO","method":"bogus"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "FP_002", body.Error.Code)
}

func TestFingerprintEndpointDefaultsToMorgan(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/fingerprint", `{"smiles":"CCO"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Method  string `json:"type"`
		Length  int    `json:"length"`
		SetBits int    `json:"set_bits"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "morgan", body.Method)
	assert.Equal(t, 2048, body.Length)
	assert.Greater(t, body.SetBits, 0)
}

func TestSimilarityEndpointEnvelope(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/similarity",
		`{"query":"CCO","targets":["CCO","CCCC"],"threshold":0.5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query   string `json:"query"`
		Count   int    `json:"count"`
		Results []struct {
			SMILES     string  `json:"smiles"`
			Similarity float64 `json:"similarity"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CCO", body.Query)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 1.0, body.Results[0].Similarity)
}

func TestSimilarityEndpointBadThreshold(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/similarity",
		`{"query":"CCO","targets":["CCO"],"threshold":1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRenderEndpointReturnsPNG(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/render",
		`{"smiles":"c1ccccc1","width":200,"height":200}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 0x50, 0x4E, 0x47}))
}

func TestRenderEndpointRejectsOversizedDimensions(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/render",
		`{"smiles":"CCO","width":100000,"height":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMCSEndpoint(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/mcs",
		`{"smiles":["c1ccccc1","Oc1ccccc1"],"timeout_seconds":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		NumAtoms     int    `json:"num_atoms"`
		NumMolecules int    `json:"num_molecules"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Success", body.Status)
	assert.Equal(t, 2, body.NumMolecules)
	assert.GreaterOrEqual(t, body.NumAtoms, 6)
}

func TestReactionEndpoint(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/reactions/apply",
		`{"reaction":"[C:1][O:2]>>[C:1].[O:2]","reactant_sets":[["CO"]]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string `json:"status"`
		Results []struct {
			Products []string `json:"products"`
			Status   string   `json:"status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Success", body.Status)
	require.Len(t, body.Results, 1)
	assert.Equal(t, []string{"C.O"}, body.Results[0].Products)
}

func TestRetroEndpoint(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/reactions/retro",
		`{"smiles":"CCCC","max_suggestions":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Suggestions []struct {
			Fragments []string `json:"fragments"`
		} `json:"suggestions"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Success", body.Status)
	assert.Len(t, body.Suggestions, 2)
}

func TestLipinskiEndpoint(t *testing.T) {
	rec := postJSON(t, newTestRouter(), "/api/v1/molecules/lipinski",
		`{"smiles":"CC(=O)Oc1ccccc1C(=O)O"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Violations int  `json:"violations"`
		MWPass     bool `json:"mw_pass"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.Violations)
	assert.True(t, body.MWPass)
}

func TestRequestIDPropagated(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
