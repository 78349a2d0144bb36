package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosift/app"
	"gosift/internal/config"
	apperrors "gosift/internal/errors"
)

const salesCSV = "city,amount,when\nparis,10,2024-01-01\nlyon,20,2024-01-02\nnice,,2024-01-03\nparis,40,2024-01-04\n"

func newTestAPI(t *testing.T) *Service {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Server.GinMode = gin.TestMode
	return NewService(cfg, app.NewInsightsService(cfg))
}

func perform(t *testing.T, s *Service, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadSales(t *testing.T, s *Service) string {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(salesCSV))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	rec := perform(t, s, http.MethodPost, "/api/datasets", form.FormDataContentType(), buf.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestAPI(t)

	rec := perform(t, s, http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestUploadProfilesDataset(t *testing.T) {
	s := newTestAPI(t)

	token := uploadSales(t, s)
	assert.Equal(t, "sales.csv", token)

	rec := perform(t, s, http.MethodGet, "/api/datasets/"+token+"/profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Rows)
	assert.Equal(t, 3, resp.Columns)
	assert.Equal(t, []string{"when → datetime"}, resp.Changes)
	require.Len(t, resp.Missing, 1)
	assert.Equal(t, "amount", resp.Missing[0].Column)
}

func TestUploadRejectsMissingFile(t *testing.T) {
	s := newTestAPI(t)

	rec := perform(t, s, http.MethodPost, "/api/datasets", "application/json", []byte(`{}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeInvalidInput, resp.Code)
}

func TestUploadRejectsMalformedCSV(t *testing.T) {
	s := newTestAPI(t)
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "bad.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("a,b\n\"broken"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	rec := perform(t, s, http.MethodPost, "/api/datasets", form.FormDataContentType(), buf.Bytes())

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeParseError, resp.Code)
}

func TestViewAppliesSelection(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	body := []byte(`{"selection":{"categorical":{"city":["paris"]}}}`)
	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/view", "application/json", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ViewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Rows)
	assert.Equal(t, 4, resp.TotalRows)
	assert.InDelta(t, 50.0, resp.Percent, 1e-9)
	assert.False(t, resp.Sampled)
}

func TestViewWithoutBodySelectsEverything(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/view", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ViewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Rows)
}

func TestViewRejectsMalformedSelection(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/view", "application/json", []byte(`{"selection":`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewReturnsGrid(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/preview", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var grid Grid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grid))
	assert.Equal(t, []string{"city", "amount", "when"}, grid.Columns)
	assert.Equal(t, []string{"text", "float", "datetime"}, grid.Types)
	require.Len(t, grid.Rows, 4)
	assert.Equal(t, "paris", grid.Rows[0][0])
	assert.Equal(t, "", grid.Rows[2][1], "null cells render empty")
}

func TestFieldsDescribesFilterableColumns(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodGet, "/api/datasets/"+token+"/fields", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"column":"city"`)
	assert.Contains(t, rec.Body.String(), `"kind":"categorical"`)
	assert.Contains(t, rec.Body.String(), `"kind":"numeric_range"`)
}

func TestBreakdownCountsCategories(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/breakdown?column=city", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp BreakdownResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "city", resp.Column)
	require.NotEmpty(t, resp.Values)
	assert.Equal(t, "paris", resp.Values[0].Value)
	assert.Equal(t, 2, resp.Values[0].Count)
}

func TestBreakdownRequiresColumn(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/breakdown", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBreakdownRejectsNumericColumn(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/breakdown?column=amount", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeValidationError, resp.Code)
}

func TestSnapshotReportsHeadlineNumbers(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/snapshot?column=amount", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestCorrelationEndpoint(t *testing.T) {
	s := newTestAPI(t)
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "xy.csv")
	require.NoError(t, err)
	fmt.Fprint(part, "x,y\n1,2\n2,4\n3,6\n")
	require.NoError(t, form.Close())
	rec := perform(t, s, http.MethodPost, "/api/datasets", form.FormDataContentType(), buf.Bytes())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = perform(t, s, http.MethodPost, "/api/datasets/xy.csv/correlation?x=x&y=y", "", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"pairs":3`)
}

func TestExportRowsDownloadsCSV(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	body := []byte(`{"selection":{"categorical":{"city":["lyon"]}}}`)
	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/export/rows", "application/json", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="filtered_data.csv"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Export-ID"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "city,amount,when", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "lyon,20,"))
}

func TestExportSummaryDownloadsCSV(t *testing.T) {
	s := newTestAPI(t)
	token := uploadSales(t, s)

	rec := perform(t, s, http.MethodPost, "/api/datasets/"+token+"/export/summary", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="summary_stats.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "column,count,unique,top,freq,mean,std,min,25%,50%,75%,max"))
}

func TestUnknownDatasetReturnsNotFound(t *testing.T) {
	s := newTestAPI(t)

	rec := perform(t, s, http.MethodGet, "/api/datasets/ghost.csv/profile", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeNotFound, resp.Code)
}

func TestQueryWithoutSourceUnavailable(t *testing.T) {
	s := newTestAPI(t)

	body := []byte(`{"name":"orders","query":"select 1"}`)
	rec := perform(t, s, http.MethodPost, "/api/datasets/query", "application/json", body)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoadResourceMissingFile(t *testing.T) {
	s := newTestAPI(t)

	body := []byte(`{"name":"absent.csv"}`)
	rec := perform(t, s, http.MethodPost, "/api/datasets/resource", "application/json", body)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
