package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/amithrb/jobfinder/internal/config"
	"github.com/amithrb/jobfinder/internal/domain"
	"github.com/amithrb/jobfinder/internal/match"
	"github.com/amithrb/jobfinder/internal/profile"
	"github.com/amithrb/jobfinder/internal/usecase"
)

// Server bundles the handlers' dependencies.
type Server struct {
	Cfg       config.Config
	Session   *usecase.Session
	Extractor domain.TextExtractor
	Source    domain.PostingSource
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, session *usecase.Session, extractor domain.TextExtractor, source domain.PostingSource) *Server {
	return &Server{Cfg: cfg, Session: session, Extractor: extractor, Source: source}
}

func allowedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

func allowedMIME(m string) bool {
	if strings.HasPrefix(m, "text/plain") { // allow parameters such as charset
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// ResumeHandler handles multipart upload of one resume document, extracts
// its text, and ingests it into the session index.
func (s *Server) ResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code: "INVALID_ARGUMENT", Message: "payload too large",
					Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		file, header, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument), map[string]string{"field": "resume"})
			return
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		if !allowedExt(header.Filename) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "unsupported media type (extension)",
				Details: map[string]any{"filename": header.Filename},
			}})
			return
		}
		m := mimetype.Detect(data)
		if !allowedMIME(m.String()) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
				Code: "INVALID_ARGUMENT", Message: "unsupported media type (content)",
				Details: map[string]any{"mime": m.String(), "filename": header.Filename},
			}})
			return
		}

		text, err := s.extractText(r.Context(), header.Filename, data, m.String())
		if err != nil {
			writeError(w, r, fmt.Errorf("resume extract: %w", err), nil)
			return
		}
		if err := s.Session.Ingest(r.Context(), text, header.Filename); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "indexed",
			"filename":  header.Filename,
			"documents": s.Session.DocumentCount(),
		})
	}
}

// extractText short-circuits plain text uploads; everything else goes
// through the external extractor.
func (s *Server) extractText(ctx context.Context, fileName string, data []byte, mime string) (string, error) {
	if strings.HasPrefix(mime, "text/plain") {
		return string(data), nil
	}
	return s.Extractor.Extract(ctx, fileName, data)
}

// ProfileHandler returns the structured resume profile, extracting it
// lazily on first call after an ingest.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Session.Profile(r.Context())
		if err != nil {
			var perr *profile.ParseError
			if errors.As(err, &perr) {
				writeError(w, r, err, map[string]string{"raw": perr.Raw})
				return
			}
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type rankRequest struct {
	Postings []domain.RawPosting `json:"postings"`
	Query    string              `json:"query" validate:"max=500"`
	Location string              `json:"location" validate:"max=200"`
	Domains  []string            `json:"domains" validate:"max=20,dive,max=100"`
}

type rankResponse struct {
	Results     []domain.ScoredPosting   `json:"results"`
	Diagnostics domain.FilterDiagnostics `json:"diagnostics"`
}

// decodeRankRequest parses and validates the rank request body. Postings
// may be supplied inline; otherwise a query is required and the configured
// posting source is consulted.
func (s *Server) decodeRankRequest(r *http.Request) (rankRequest, error) {
	var req rankRequest
	r.Body = http.MaxBytesReader(nil, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument)
	}
	if err := getValidator().Struct(req); err != nil {
		return req, fmt.Errorf("%w: validation failed: %v", domain.ErrInvalidArgument, err)
	}
	if len(req.Postings) == 0 && req.Query == "" {
		return req, fmt.Errorf("%w: either postings or query required", domain.ErrInvalidArgument)
	}
	return req, nil
}

func (s *Server) gatherAndRank(r *http.Request, req rankRequest) ([]domain.ScoredPosting, domain.FilterDiagnostics, error) {
	postings := req.Postings
	if len(postings) == 0 {
		if s.Source == nil {
			return nil, domain.FilterDiagnostics{}, fmt.Errorf("%w: no posting source configured", domain.ErrInvalidArgument)
		}
		var err error
		postings, err = s.Source.Search(r.Context(), req.Query, s.Cfg.SearchMaxResults, req.Domains)
		if err != nil {
			return nil, domain.FilterDiagnostics{}, fmt.Errorf("posting search: %w", err)
		}
	}
	return s.Session.Rank(r.Context(), postings, req.Location, req.Domains)
}

// RankHandler normalizes, scores, and ranks postings against the session
// profile, returning the ordered list plus filter diagnostics.
func (s *Server) RankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.decodeRankRequest(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		ranked, diag, err := s.gatherAndRank(r, req)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rankResponse{Results: ranked, Diagnostics: diag})
	}
}

// RankExportHandler runs the same flow as RankHandler but streams the
// ranked postings as a CSV attachment for spreadsheet import.
func (s *Server) RankExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.decodeRankRequest(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		ranked, _, err := s.gatherAndRank(r, req)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="recommended_jobs.csv"`)
		if err := match.WriteCSV(w, ranked); err != nil {
			LoggerFrom(r).Error("csv export failed", "error", err)
		}
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}
