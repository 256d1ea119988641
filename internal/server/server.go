package server

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursecal/coursecal/internal/config"
	"github.com/coursecal/coursecal/internal/core"
	"github.com/coursecal/coursecal/internal/core/extraction"
	"github.com/coursecal/coursecal/internal/core/model"
	"github.com/coursecal/coursecal/internal/ics"
	"github.com/coursecal/coursecal/internal/llm"
)

var supportedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

type Server struct {
	cfg       *config.Config
	pipeline  *core.Pipeline
	extractor *extraction.Extractor
}

// NewServer wires the pipeline and the extraction collaborator. The
// LLM client is injected so tests can run without network access.
func NewServer(cfg *config.Config, rules config.Rules, llmClient llm.Client) (*Server, error) {
	pipeline, err := core.NewPipeline(cfg, rules)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return &Server{
		cfg:       cfg,
		pipeline:  pipeline,
		extractor: extraction.NewExtractor(llmClient, cfg.Extraction),
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(s.corsMiddleware())

	r.GET("/", s.Root)
	r.GET("/health", s.Health)
	r.POST("/upload-json", s.UploadJSON)
	r.POST("/upload-text", s.UploadText)
	r.POST("/calendar-from-events", s.CalendarFromEvents)
	r.POST("/preview", s.Preview)

	return r
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	wildcard := false
	allowed := make(map[string]bool, len(s.cfg.Server.AllowOrigins))
	for _, o := range s.cfg.Server.AllowOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}
	return func(c *gin.Context) {
		switch origin := c.GetHeader("Origin"); {
		case wildcard:
			c.Header("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type ParseResponse struct {
	Events  []model.CalendarRecord `json:"events"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
}

// UploadJSON accepts one or more pre-rendered page images under the
// "file" field, extracts raw events from each, and returns the merged
// calendar records. One failed page degrades to zero records for that
// page; the request only fails when every page does.
func (s *Server) UploadJSON(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart request"})
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	var raws []model.RawEvent
	failed := 0
	for _, fh := range files {
		events, err := s.extractFile(c, fh)
		if err != nil {
			log.Printf("Failed to extract page '%s': %v", fh.Filename, err)
			failed++
			continue
		}
		raws = append(raws, events...)
	}
	if failed == len(files) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract events from every page"})
		return
	}

	records := s.process(raws)
	c.JSON(http.StatusOK, ParseResponse{
		Events:  records,
		Success: true,
		Message: fmt.Sprintf("Extracted %d events", len(records)),
	})
}

type UploadTextRequest struct {
	Text string `json:"text"`
}

// UploadText accepts pre-extracted outline text (an OCR pass or a PDF
// text layer) and runs the same extract-to-records flow as the image
// upload.
func (s *Server) UploadText(c *gin.Context) {
	var req UploadTextRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	raws, err := s.extractor.ExtractText(c.Request.Context(), req.Text)
	if err != nil {
		log.Printf("Failed to extract from text: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract events"})
		return
	}

	records := s.process(raws)
	c.JSON(http.StatusOK, ParseResponse{
		Events:  records,
		Success: true,
		Message: fmt.Sprintf("Extracted %d events", len(records)),
	})
}

func (s *Server) extractFile(c *gin.Context, fh *multipart.FileHeader) ([]model.RawEvent, error) {
	mimeType := fh.Header.Get("Content-Type")
	if !supportedImageTypes[mimeType] {
		return nil, fmt.Errorf("unsupported file type: %s", mimeType)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	return s.extractor.ExtractPage(c.Request.Context(), data, mimeType)
}

// CalendarFromEvents re-runs the cleanup over caller-supplied events
// and returns the ICS file.
func (s *Server) CalendarFromEvents(c *gin.Context) {
	var raws []model.RawEvent
	if err := c.ShouldBindJSON(&raws); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	records := s.process(raws)

	data, err := ics.Encode(records)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="course_schedule.ics"`)
	c.Data(http.StatusOK, "text/calendar", data)
}

type PreviewResponse struct {
	Events      []model.CalendarRecord `json:"events"`
	Occurrences []ics.Occurrence       `json:"occurrences"`
}

// Preview returns the merged records plus the concrete occurrences of
// recurring events within the term window.
func (s *Server) Preview(c *gin.Context) {
	var raws []model.RawEvent
	if err := c.ShouldBindJSON(&raws); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	records := s.process(raws)
	from, until := previewWindow(records, s.cfg.Engine.MaxTermWeeks)

	var occurrences []ics.Occurrence
	for _, rec := range records {
		occ, err := ics.Expand(rec, from, until, 0)
		if err != nil {
			log.Printf("Failed to expand '%s': %v", rec.Title, err)
			continue
		}
		occurrences = append(occurrences, occ...)
	}

	c.JSON(http.StatusOK, PreviewResponse{Events: records, Occurrences: occurrences})
}

// process is the shared extract-to-records tail: detect the term
// anchor, drop unschedulable records, run the core transform.
func (s *Server) process(raws []model.RawEvent) []model.CalendarRecord {
	anchor := extraction.DetectAnchor(raws, s.cfg.Engine.DefaultYear)
	kept := extraction.Filter(raws)
	canonical := s.pipeline.Process(kept, anchor)
	return s.pipeline.Records(canonical)
}

// previewWindow spans the earliest record date to the latest date or
// recurrence end, falling back to a full term from the earliest date.
func previewWindow(records []model.CalendarRecord, maxTermWeeks int) (time.Time, time.Time) {
	var from, until time.Time
	for _, rec := range records {
		if rec.Date == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			continue
		}
		if from.IsZero() || d.Before(from) {
			from = d
		}
		if d.After(until) {
			until = d
		}
		if rec.Recurrence != nil && rec.Recurrence.Until != "" {
			if u, err := time.Parse("2006-01-02", rec.Recurrence.Until); err == nil && u.After(until) {
				until = u
			}
		}
	}
	if from.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if minUntil := from.AddDate(0, 0, 7*maxTermWeeks); until.Before(minUntil) {
		until = minUntil
	}
	return from, until
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Course outline parser is running",
	})
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Course Outline Parser API",
		"endpoints": gin.H{
			"upload_json":          "/upload-json (POST)",
			"upload_text":          "/upload-text (POST)",
			"calendar_from_events": "/calendar-from-events (POST)",
			"preview":              "/preview (POST)",
			"health":               "/health (GET)",
		},
	})
}
