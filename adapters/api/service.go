package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"gosift/app"
	"gosift/domain/core"
	"gosift/internal"
	"gosift/internal/config"
	apperrors "gosift/internal/errors"
	"gosift/internal/session"
	"gosift/models"
)

// Service exposes the profiling pipeline as a JSON API. Datasets load by
// upload, by name from the data directory, or from a read-only query; every
// later call addresses them by identity token.
type Service struct {
	router   *gin.Engine
	insights *app.InsightsService
	logger   *internal.Logger
}

// NewService creates the API service and registers its routes
func NewService(cfg *config.Config, insights *app.InsightsService) *Service {
	gin.SetMode(cfg.Server.GinMode)
	s := &Service{
		router:   gin.Default(),
		insights: insights,
		logger:   internal.DefaultLogger,
	}
	s.setupRoutes()
	return s
}

// Router returns the underlying engine for tests and embedding.
func (s *Service) Router() *gin.Engine {
	return s.router
}

// Start starts the API server
func (s *Service) Start(addr string) error {
	s.logger.Info("[API] listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Service) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth)

	datasets := s.router.Group("/api/datasets")
	datasets.GET("", s.handleList)
	datasets.POST("", s.handleUpload)
	datasets.POST("/resource", s.handleLoadResource)
	datasets.POST("/query", s.handleLoadQuery)

	one := datasets.Group("/:token")
	one.GET("/profile", s.handleProfile)
	one.GET("/fields", s.handleFields)
	one.POST("/view", s.handleView)
	one.POST("/preview", s.handlePreview)
	one.POST("/summary", s.handleSummary)
	one.POST("/breakdown", s.handleBreakdown)
	one.POST("/snapshot", s.handleSnapshot)
	one.POST("/correlation", s.handleCorrelation)
	one.POST("/export/rows", s.handleExportRows)
	one.POST("/export/summary", s.handleExportSummary)
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"datasets": len(s.insights.Datasets()),
	})
}

func (s *Service) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasets": s.insights.Datasets()})
}

func (s *Service) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: `multipart field "file" is required`,
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		s.respondError(c, err)
		return
	}

	entry, err := s.insights.LoadBytes(c.Request.Context(), file.Filename, data)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, datasetResponse(entry))
}

func (s *Service) handleLoadResource(c *gin.Context) {
	var req LoadResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: "dataset name is required",
		})
		return
	}

	entry, err := s.insights.LoadResource(c.Request.Context(), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, datasetResponse(entry))
}

func (s *Service) handleLoadQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: "dataset name and query are required",
		})
		return
	}

	entry, err := s.insights.LoadQuery(c.Request.Context(), req.Name, req.Query)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, datasetResponse(entry))
}

func (s *Service) handleProfile(c *gin.Context) {
	token, ok := s.token(c)
	if !ok {
		return
	}
	entry, err := s.insights.Entry(token)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{
		Token:      entry.Token.String(),
		SourceName: entry.SourceName,
		Rows:       entry.Table.NumRows(),
		Columns:    entry.Table.NumCols(),
		Inventory:  entry.Inventory,
		Changes:    entry.ChangeLog,
		Missing:    entry.Missing,
		LoadedAt:   entry.LoadedAt,
	})
}

func (s *Service) handleFields(c *gin.Context) {
	token, ok := s.token(c)
	if !ok {
		return
	}
	fields, err := s.insights.FilterFields(token)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

func (s *Service) handleView(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	d, err := s.insights.Derive(token, sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ViewResponse{
		Rows:        d.View.NumRows(),
		TotalRows:   d.View.Source().NumRows(),
		Percent:     d.View.PercentOfSource(),
		SampledRows: d.Sampled.NumRows(),
		Sampled:     d.Sampled.NumRows() < d.View.NumRows(),
		Notes:       d.Notes,
	})
}

func (s *Service) handlePreview(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	head, err := s.insights.Preview(token, sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gridFrom(head))
}

func (s *Service) handleSummary(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	d, err := s.insights.Derive(token, sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gridFrom(d.Summary))
}

func (s *Service) handleBreakdown(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	column := c.Query("column")
	if column == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: `query parameter "column" is required`,
		})
		return
	}

	values, remaining, err := s.insights.Breakdown(token, sel, column)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BreakdownResponse{Column: column, Values: values, Remaining: remaining})
}

func (s *Service) handleSnapshot(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	column := c.Query("column")
	if column == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: `query parameter "column" is required`,
		})
		return
	}

	snap, err := s.insights.Snapshot(token, sel, column)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Service) handleCorrelation(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	x, y := c.Query("x"), c.Query("y")
	if x == "" || y == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: `query parameters "x" and "y" are required`,
		})
		return
	}

	corr, err := s.insights.Correlate(token, sel, x, y)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, corr)
}

func (s *Service) handleExportRows(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	export, err := s.insights.ExportView(token, sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.sendCSV(c, export)
}

func (s *Service) handleExportSummary(c *gin.Context) {
	token, sel, ok := s.tokenAndSelection(c)
	if !ok {
		return
	}
	export, err := s.insights.ExportSummary(token, sel)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.sendCSV(c, export)
}

func (s *Service) sendCSV(c *gin.Context, export *app.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Header("X-Export-ID", export.ID.String())
	c.Data(http.StatusOK, "text/csv", export.Data)
}

func (s *Service) token(c *gin.Context) (core.DatasetToken, bool) {
	token, err := core.ParseDatasetToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:  apperrors.CodeInvalidInput,
			Error: err.Error(),
		})
		return "", false
	}
	return token, true
}

// tokenAndSelection reads the path token and the optional selection body.
// An absent body means the empty selection, which selects every row.
func (s *Service) tokenAndSelection(c *gin.Context) (core.DatasetToken, models.Selection, bool) {
	token, ok := s.token(c)
	if !ok {
		return "", models.Selection{}, false
	}

	var req ViewRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:  apperrors.CodeInvalidInput,
				Error: "malformed selection payload",
			})
			return "", models.Selection{}, false
		}
	}
	return token, req.Selection, true
}

func (s *Service) respondError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Code: apperrors.CodeNotFound, Error: err.Error()})
	case core.IsParseError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: apperrors.CodeParseError, Error: err.Error()})
	case errors.Is(err, core.ErrNotNumeric),
		errors.Is(err, core.ErrNotCategorical),
		errors.Is(err, core.ErrInvertedBounds):
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: apperrors.CodeValidationError, Error: err.Error()})
	case errors.Is(err, app.ErrNoSource):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Code: apperrors.CodeDatabaseError, Error: err.Error()})
	default:
		s.logger.Error("[API] request failed: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: apperrors.CodeInternalError, Error: "internal error"})
	}
}

func datasetResponse(e *session.Entry) DatasetResponse {
	return DatasetResponse{
		Token:      e.Token.String(),
		SourceName: e.SourceName,
		Rows:       e.Table.NumRows(),
		Columns:    e.Table.NumCols(),
		Changes:    e.ChangeLog,
		LoadedAt:   e.LoadedAt,
	}
}
