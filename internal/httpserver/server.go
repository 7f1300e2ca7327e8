// Package httpserver exposes the analysis pipeline over HTTP. Every
// response is plain JSON; failures are tagged error objects, never panics.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eonlabs/eonparse/internal/model"
	"github.com/eonlabs/eonparse/internal/normalize"
	"github.com/eonlabs/eonparse/internal/pipeline"
)

// fieldOptionLimit bounds distinct values returned per form field.
const fieldOptionLimit = 100

// Server provides the HTTP API over one analysis session.
type Server struct {
	addr      string
	session   *pipeline.Session
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	log       zerolog.Logger
	startTime time.Time
}

// NewServer creates an HTTP API server bound to the given session.
func NewServer(addr string, session *pipeline.Session, log zerolog.Logger) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:    addr,
		session: session,
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/fields", s.handleFields)
	r.POST("/api/ingest", s.handleIngest)
	r.POST("/api/search", s.handleSearch)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()
	s.log.Info().Str("addr", listener.Addr().String()).Msg("http api listening")

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http api stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"file_count": s.session.FileCount(),
		"row_count":  s.session.RowCount(),
	})
}

func (s *Server) handleFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields": s.session.FieldOptions(fieldOptionLimit),
	})
}

// handleIngest accepts multipart file uploads and normalizes each one.
// Per-file diagnostics are returned; a file that cannot be read at all is
// reported in the response rather than failing the whole upload.
func (s *Server) handleIngest(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart form upload"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in upload"})
		return
	}

	requestID := uuid.NewString()
	type fileReport struct {
		File        string             `json:"file"`
		Rows        int                `json:"rows,omitempty"`
		Diagnostics *model.Diagnostics `json:"diagnostics,omitempty"`
		Error       string             `json:"error,omitempty"`
	}

	reports := make([]fileReport, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			reports = append(reports, fileReport{File: fh.Filename, Error: normalize.ErrUnreadable.Error()})
			continue
		}
		t, err := s.session.IngestReader(fh.Filename, f)
		f.Close()
		if err != nil {
			reports = append(reports, fileReport{File: fh.Filename, Error: err.Error()})
			continue
		}
		diag := t.Diagnostics
		reports = append(reports, fileReport{File: fh.Filename, Rows: len(t.Rows), Diagnostics: &diag})
	}

	s.log.Info().Str("request_id", requestID).Int("files", len(files)).Msg("ingest request")
	c.JSON(http.StatusOK, gin.H{"request_id": requestID, "files": reports})
}

// searchRequest is the /api/search body: either free text or a structured
// spec. When both are present the structured spec wins.
type searchRequest struct {
	Query string            `json:"query"`
	Spec  *model.FilterSpec `json:"spec"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request body"})
		return
	}
	if req.Spec == nil && req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either query or spec is required"})
		return
	}

	requestID := uuid.NewString()

	var result *pipeline.Result
	if req.Spec != nil {
		result = s.session.Search(*req.Spec)
	} else {
		result = s.session.SearchText(req.Query, time.Now().UTC())
	}

	rows := result.Rows()
	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]any, len(row))
		for k, v := range row {
			rec[k] = v.Native()
		}
		records = append(records, rec)
	}

	s.log.Info().
		Str("request_id", requestID).
		Int("rows", result.Summary.TotalLogs).
		Str("viz", string(result.Visualization.Kind)).
		Msg("search request")

	c.JSON(http.StatusOK, gin.H{
		"request_id":    requestID,
		"spec":          result.Spec,
		"summary":       result.Summary,
		"visualization": result.Visualization,
		"rows":          records,
	})
}
