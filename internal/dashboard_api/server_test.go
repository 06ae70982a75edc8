package dashboard_api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collections-workflow/internal/collections_engine/actions"
	"github.com/collections-workflow/internal/collections_engine/store"
	"github.com/collections-workflow/internal/config"
	"github.com/collections-workflow/internal/dashboard_api/handler"
	"github.com/collections-workflow/internal/dashboard_api/middleware"
	"github.com/collections-workflow/internal/dashboard_api/service"
	"github.com/collections-workflow/internal/data/fixtures"
	"github.com/collections-workflow/internal/domain/actionlog"
	"github.com/collections-workflow/internal/domain/workflow"
	"github.com/collections-workflow/internal/letters"
)

type stubArchive struct{}

func (stubArchive) FindByBorrower(_ context.Context, borrowerID string, _ int64) ([]actionlog.Entry, error) {
	return []actionlog.Entry{{ID: "archived", BorrowerID: borrowerID}}, nil
}

func newTestServer(t *testing.T, archive service.ArchiveReader) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx := context.Background()

	s := store.New(logger, store.WithTransitionPolicy(workflow.PolicyStrict))
	portfolio := fixtures.NewPortfolio()
	list, err := portfolio.LoadAll(ctx)
	require.NoError(t, err)
	for _, b := range list {
		require.NoError(t, s.Import(ctx, b, ""))
	}
	s.RestoreLogs(portfolio.HistoricLogs()...)

	generator := letters.NewGenerator(logger, letters.Config{
		CompanyName:    "ISABEL FINANCIAL SERVICES",
		CompanyAddress: "1 Collections Plaza",
		ContactPhone:   "555-0100",
		CurrencyPrefix: "$",
	})

	cfg := &config.Config{
		Application: config.ApplicationConfig{Env: "test", Name: "collections-workflow"},
		Server:      config.ServerConfig{Port: 0},
	}

	return NewServer(logger, cfg, Services{
		Borrowers: service.NewBorrowerService(s),
		Actions:   service.NewActionService(s, actions.NewPerformer(logger, s, generator), generator),
		Reports:   service.NewReportService(s),
		Archive:   archive,
		Store:     s,
	})
}

func serve(srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := serve(srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.CorrelationIDHeader))

	var resp handler.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "strict", data["transition_policy"])
	assert.EqualValues(t, 10, data["borrowers"])
}

func TestServer_ArchiveRouteOnlyWithArchive(t *testing.T) {
	rr := serve(newTestServer(t, nil), http.MethodGet, "/api/v1/borrowers/1/archive", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(newTestServer(t, stubArchive{}), http.MethodGet, "/api/v1/borrowers/1/archive", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"archived"`)
}

func TestServer_FirstLetterEscalatesBorrower(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := serve(srv, http.MethodPost, "/api/v1/borrowers/5/actions/GEN_PDF_1", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "/api/v1/borrowers/5/letters/1ST")

	rr = serve(srv, http.MethodGet, "/api/v1/borrowers/5", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data handler.BorrowerDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "1ST_DEMAND", resp.Data.Borrower.Status)
	assert.Zero(t, resp.Data.Borrower.DaysInStatus)
	assert.Nil(t, resp.Data.PrimaryAction, "second letter is not offered before the dwell period")
	require.NotEmpty(t, resp.Data.Logs)
	assert.Equal(t, "Generated 1st Demand Letter", resp.Data.Logs[0].Notes)

	rr = serve(srv, http.MethodGet, "/api/v1/borrowers/5/letters/1ST", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))

	rr = serve(srv, http.MethodPost, "/api/v1/borrowers/5/actions/GEN_PDF_1", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestServer_StrictPolicyRejectsTransition(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := serve(srv, http.MethodPost, "/api/v1/borrowers/9/status", handler.UpdateStatusRequest{Status: "LOCATED"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = serve(srv, http.MethodPost, "/api/v1/borrowers/8/status", handler.UpdateStatusRequest{Status: "WRITE_OFF", Note: "Judgment uncollectable"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(srv, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"legal":3`)
}

func TestServer_EmptyBulkSelectionIsNoOp(t *testing.T) {
	srv := newTestServer(t, nil)
	before := mustData(t, serve(srv, http.MethodGet, "/api/v1/logs", nil))

	rr := serve(srv, http.MethodPost, "/api/v1/borrowers/bulk-status", handler.BulkStatusRequest{IDs: []string{}, Status: "MOVING"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"updated":[],"skipped":[],"rejected":[]}`, string(mustData(t, rr)))

	after := mustData(t, serve(srv, http.MethodGet, "/api/v1/logs", nil))
	assert.JSONEq(t, string(before), string(after))
}

func mustData(t *testing.T, rr *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Data
}
