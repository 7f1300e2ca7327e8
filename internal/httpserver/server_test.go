package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eonlabs/eonparse/internal/pipeline"
)

const firewallCSV = `timestamp,action,protocol,src_ip,message
2024-01-01T00:10:00Z,DENY,TCP,10.0.0.1,Blocked connection attempt
2024-01-01T00:45:00Z,ALLOW,TCP,10.0.0.2,Permitted outbound session
2024-01-01T01:30:00Z,ALLOW,UDP,10.0.0.3,DNS lookup
`

func newTestRouter(t *testing.T) (*gin.Engine, *pipeline.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	session := pipeline.NewSession(pipeline.Options{}, zerolog.Nop())
	srv := NewServer("", session, zerolog.Nop())

	r := gin.New()
	r.GET("/api/health", srv.handleHealth)
	r.GET("/api/fields", srv.handleFields)
	r.POST("/api/ingest", srv.handleIngest)
	r.POST("/api/search", srv.handleSearch)
	return r, session
}

func ingestCSV(t *testing.T, r *gin.Engine, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("files", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 0, resp["file_count"])
}

func TestIngestEndpoint(t *testing.T) {
	r, session := newTestRouter(t)

	w := ingestCSV(t, r, "fw.csv", firewallCSV)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RequestID string `json:"request_id"`
		Files     []struct {
			File  string `json:"file"`
			Rows  int    `json:"rows"`
			Error string `json:"error"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "fw.csv", resp.Files[0].File)
	assert.Equal(t, 3, resp.Files[0].Rows)
	assert.Empty(t, resp.Files[0].Error)

	assert.Equal(t, 1, session.FileCount())
	assert.Equal(t, 3, session.RowCount())
}

func TestIngestRejectsNonMultipart(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader("not a form"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchWithStructuredSpec(t *testing.T) {
	r, _ := newTestRouter(t)
	ingestCSV(t, r, "fw.csv", firewallCSV)

	body := `{"spec":{"action":["allow"]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Summary struct {
			TotalLogs int `json:"total_logs"`
		} `json:"summary"`
		Rows []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.TotalLogs)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "ALLOW", resp.Rows[0]["action"])
}

func TestSearchWithFreeTextQuery(t *testing.T) {
	r, _ := newTestRouter(t)
	ingestCSV(t, r, "fw.csv", firewallCSV)

	// The parsed time range is relative to the server clock, so row counts
	// are not stable here; assert on the interpreted spec and response shape.
	body := `{"query":"blocked traffic last 2 hours"}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Spec struct {
			Action        []string `json:"action"`
			OriginalQuery string   `json:"original_query"`
		} `json:"spec"`
		Visualization struct {
			Kind string `json:"kind"`
		} `json:"visualization"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"block"}, resp.Spec.Action)
	assert.Equal(t, "blocked traffic last 2 hours", resp.Spec.OriginalQuery)
	assert.NotEmpty(t, resp.Visualization.Kind)
}

func TestSearchRequiresQueryOrSpec(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFieldsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	ingestCSV(t, r, "fw.csv", firewallCSV)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fields", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"ALLOW", "DENY"}, resp.Fields["action"])
	assert.Equal(t, []string{"TCP", "UDP"}, resp.Fields["protocol"])
}
