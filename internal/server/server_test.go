package server

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/profile"
	"github.com/aworks-dev/bol-extractor/internal/repository"
)

func testService(t *testing.T, withStore bool) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var runs repository.RunRepository
	if withStore {
		db, err := repository.Open(context.Background(),
			repository.Config{Path: ":memory:", BusyTimeout: time.Second}, logger)
		require.NoError(t, err)
		t.Cleanup(func() { repository.Close(db, logger) })
		runs = repository.NewRunRepository(db, logger)
	}
	return NewService(profile.Default(), runs, logger)
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func processBody() map[string]any {
	return map[string]any{
		"pages": []map[string]any{
			{"page_number": 1, "lines": []string{"A123", "5 10 200.0", "Total: 5 200.0"}},
		},
		"reference": []map[string]any{
			{"key": "A123", "company_name": "ACME", "bol_number": "A123"},
		},
	}
}

func TestHealthz(t *testing.T) {
	rr := doJSON(t, testService(t, false).Routes(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestProcess(t *testing.T) {
	rr := doJSON(t, testService(t, true).Routes(), http.MethodPost, "/process", processBody())
	require.Equal(t, http.StatusOK, rr.Code)

	var resp processResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, constants.RunOK, resp.Status)
	assert.Equal(t, 1, resp.Summary.Shipments)
	assert.Equal(t, 1, resp.Summary.Matched)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, constants.MatchMatched, resp.Records[0].Match)
}

func TestProcessBadBody(t *testing.T) {
	h := testService(t, false).Routes()
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProcessProfileOverride(t *testing.T) {
	body := processBody()
	body["profile"] = map[string]any{"pallet_count_policy": "majority_vote"}
	rr := doJSON(t, testService(t, false).Routes(), http.MethodPost, "/process", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	body["profile"] = map[string]any{"pallet_count_policy": "row_count"}
	rr = doJSON(t, testService(t, false).Routes(), http.MethodPost, "/process", body)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp processResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	// row_count policy: one accepted row means one pallet, mismatching the
	// declared five.
	require.Len(t, resp.Records, 1)
	assert.Equal(t, constants.ReconMismatch, resp.Records[0].Shipment.Recon)
}

func TestRunHistoryRoundtrip(t *testing.T) {
	h := testService(t, true).Routes()

	rr := doJSON(t, h, http.MethodPost, "/process", processBody())
	require.Equal(t, http.StatusOK, rr.Code)
	var created processResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, h, http.MethodGet, "/runs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list struct {
		Runs []struct {
			RunID string `json:"run_id"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, created.RunID, list.Runs[0].RunID)

	rr = doJSON(t, h, http.MethodGet, "/runs/"+created.RunID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var fetched processResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, created.RunID, fetched.RunID)
	assert.Equal(t, created.Summary, fetched.Summary)
}

func TestRunHistoryDisabled(t *testing.T) {
	h := testService(t, false).Routes()
	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, "/runs", nil).Code)
	assert.Equal(t, http.StatusNotFound,
		doJSON(t, h, http.MethodGet, "/runs/5a3c29f1-9f1f-4b57-9f2f-0c2ad60ad9cd", nil).Code)
}

func TestGetRunBadID(t *testing.T) {
	rr := doJSON(t, testService(t, true).Routes(), http.MethodGet, "/runs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetRunMissing(t *testing.T) {
	rr := doJSON(t, testService(t, true).Routes(), http.MethodGet,
		"/runs/5a3c29f1-9f1f-4b57-9f2f-0c2ad60ad9cd", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportRun(t *testing.T) {
	h := testService(t, true).Routes()

	rr := doJSON(t, h, http.MethodPost, "/process", processBody())
	require.Equal(t, http.StatusOK, rr.Code)
	var created processResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, h, http.MethodGet, "/runs/"+created.RunID+"/export.csv", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), constants.OutputCSVName)

	rows, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, constants.ExportColumns, rows[0])
	assert.Equal(t, "ACME", rows[1][0])
	assert.Equal(t, "A123", rows[1][3])
}
