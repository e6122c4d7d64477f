package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// multipartSlack covers multipart framing on top of the document itself.
const multipartSlack = 1 << 20

// Scraper is the service the handlers drive.
type Scraper interface {
	ScrapeURLs(ctx context.Context, raw []string) (scrape.Response, error)
	ScrapeDocument(ctx context.Context, doc []byte, contentType string) (scrape.Response, error)
	MaxDocumentBytes() int64
}

// Server wires HTTP handlers to the scrape service.
type Server struct {
	router  chi.Router
	scraper Scraper
	ids     scrape.IDGenerator
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(scraper Scraper, ids scrape.IDGenerator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		scraper: scraper,
		ids:     ids,
		logger:  logger.Named("api"),
	}
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(metrics.Middleware)

	r.Get("/health", s.healthz)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// scrape runs are bounded by the fetch budget, not a request timeout
	r.Post("/v1/scrape", s.scrapeURLs)
	r.Post("/v1/scrape/document", s.scrapeDocument)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Nothing downstream to check: fetches go straight to the target hosts.
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type scrapeRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) scrapeURLs(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	resp, err := s.scraper.ScrapeURLs(r.Context(), req.URLs)
	if err != nil {
		s.writeBatchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) scrapeDocument(w http.ResponseWriter, r *http.Request) {
	limit := s.scraper.MaxDocumentBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)

	doc, contentType, err := readDocument(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		// multipart parsing does not always wrap the reader error
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			s.writeError(w, http.StatusRequestEntityTooLarge, scrape.ErrDocumentTooLarge.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.scraper.ScrapeDocument(r.Context(), doc, contentType)
	if err != nil {
		s.writeBatchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// readDocument returns the uploaded document and its declared content type,
// from the multipart "document" field or else the raw body.
func readDocument(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("read body: %w", err)
		}
		if len(body) == 0 {
			return nil, "", errors.New("empty document")
		}
		return body, contentType, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", fmt.Errorf("read multipart: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", errors.New(`missing "document" field`)
		}
		if err != nil {
			return nil, "", fmt.Errorf("read multipart: %w", err)
		}
		if part.FormName() != "document" {
			_ = part.Close()
			continue
		}
		body, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, "", fmt.Errorf("read document: %w", err)
		}
		return body, part.Header.Get("Content-Type"), nil
	}
}

func (s *Server) writeBatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scrape.ErrInvalidDocument):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scrape.ErrDocumentTooLarge):
		s.writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, scrape.ErrNoLinks):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("scrape failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type requestIDKey struct{}

// RequestID returns the request ID stored by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = s.newRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) newRequestID() string {
	if s.ids != nil {
		if id, err := s.ids.NewID(); err == nil {
			return id
		}
	}
	return uuid.NewString()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.String("request_id", RequestID(r.Context())),
				)
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := rw.ResponseWriter.(http.Hijacker); ok {
		conn, buf, err := h.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, buf, nil
	}
	return nil, nil, errors.New("hijacker not supported")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
