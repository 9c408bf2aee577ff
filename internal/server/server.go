// Package server exposes the pseudonymization service over HTTP.
//
// Endpoints:
//
//	POST /pseudonymize     - pseudonymize one document {"text":"...", "referenceDate":"dd-mm-jjjj"}
//	GET  /status           - service health and configuration summary
//	GET  /metrics          - Prometheus exposition
//	POST /stoplist/reload  - reload the stoplist file and swap the engine
//
// The detection engine is held behind an atomic pointer: stoplist
// reloads build a fresh engine and swap it in, so in-flight documents
// always finish on the engine they started with.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"dossier-pseudonymizer/internal/config"
	"dossier-pseudonymizer/internal/logger"
	"dossier-pseudonymizer/internal/metrics"
	"dossier-pseudonymizer/internal/pseudonymizer"
	"dossier-pseudonymizer/internal/stoplist"
	"dossier-pseudonymizer/internal/textprep"
)

// Server is the pseudonymization API server.
type Server struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *metrics.Metrics // nil = no metrics
	engine    atomic.Pointer[pseudonymizer.Engine]
	words     atomic.Int64 // active stoplist size, for /status
	startTime time.Time
}

// New creates a server with an engine built from the configured
// stoplist. A missing or broken stoplist file falls back to the
// built-in default list.
func New(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:       cfg,
		log:       log,
		metrics:   m,
		startTime: time.Now(),
	}

	words := stoplist.Default()
	if cfg.StoplistPath != "" {
		loaded, err := stoplist.Load(cfg.StoplistPath)
		if err != nil {
			log.Warnf("stoplist_load", "%v, using built-in defaults", err)
		} else {
			words = loaded
		}
	}
	s.SwapStoplist(words)

	if cfg.APIToken != "" {
		log.Info("auth", "bearer token authentication enabled")
	}
	return s
}

// SwapStoplist builds a fresh engine with the given word list and
// makes it the active one.
func (s *Server) SwapStoplist(words []string) {
	s.engine.Store(pseudonymizer.New(pseudonymizer.Options{
		Stoplist: words,
		Log:      s.log,
	}))
	s.words.Store(int64(len(words)))
	s.log.Infof("engine", "active with %d stoplist words", len(words))
}

// Handler returns the HTTP handler for the API, HTTP/2 cleartext
// enabled so internal load balancers can multiplex.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/pseudonymize", s.handlePseudonymize)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/stoplist/reload", s.handleReload)
	return h2c.NewHandler(s.authMiddleware(mux), &http2.Server{})
}

// ListenAndServe runs the server on the configured bind address.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.ServerPort),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Infof("listen", "serving on %s", srv.Addr)
	return srv.ListenAndServe()
}

// authMiddleware checks for a valid Bearer token if one is configured.
// The health check stays open so orchestrators can probe it.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIToken == "" || r.URL.Path == "/status" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(auth[len(prefix):])), []byte(s.cfg.APIToken)) != 1 {
			s.log.Warnf("auth", "unauthorized request from %s to %s", r.RemoteAddr, r.URL.Path)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pseudonymizeRequest is the POST /pseudonymize body.
type pseudonymizeRequest struct {
	Text string `json:"text"`

	// ReferenceDate anchors relative date labels (dd-mm-jjjj). Empty
	// means auto-detection from the document.
	ReferenceDate string `json:"referenceDate"`

	// RepairOCR overrides the configured default for this document.
	RepairOCR *bool `json:"repairOcr"`
}

// pseudonymizeResponse wraps the engine result with request metadata.
type pseudonymizeResponse struct {
	RequestID  string  `json:"requestId"`
	DurationMs float64 `json:"durationMs"`
	*pseudonymizer.Result
}

func (s *Server) handlePseudonymize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxDocumentBytes)

	var req pseudonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		if s.metrics != nil {
			s.metrics.DocumentErrors.Inc()
		}
		http.Error(w, `invalid request: need {"text":"..."}`, http.StatusBadRequest)
		return
	}

	var refDate *time.Time
	if req.ReferenceDate != "" {
		d, err := pseudonymizer.ParseInputDate(req.ReferenceDate)
		if err != nil {
			if s.metrics != nil {
				s.metrics.DocumentErrors.Inc()
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		refDate = &d
	}

	text := req.Text
	repair := s.cfg.RepairOCR
	if req.RepairOCR != nil {
		repair = *req.RepairOCR
	}
	if repair {
		text = textprep.RepairOCR(text)
	}

	requestID := uuid.NewString()
	start := time.Now()
	res := s.engine.Load().Pseudonymize(text, refDate)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordResult(res, elapsed)
	}
	s.log.Infof("document_done", "request %s: %d replacements, %d warnings in %s",
		requestID, res.TotalReplacements(), len(res.Warnings), elapsed.Round(time.Millisecond))

	writeJSON(w, http.StatusOK, pseudonymizeResponse{
		RequestID:  requestID,
		DurationMs: float64(elapsed.Microseconds()) / 1000.0,
		Result:     res,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	type response struct {
		Status        string  `json:"status"`
		Uptime        string  `json:"uptime"`
		ServerPort    int     `json:"serverPort"`
		StoplistWords int64   `json:"stoplistWords"`
		StoplistPath  string  `json:"stoplistPath,omitempty"`
		RepairOCR     bool    `json:"repairOcr"`
		UptimeSecs    float64 `json:"uptimeSecs"`
	}
	resp := response{
		Status:        "running",
		Uptime:        time.Since(s.startTime).Round(time.Second).String(),
		ServerPort:    s.cfg.ServerPort,
		StoplistWords: s.words.Load(),
		StoplistPath:  s.cfg.StoplistPath,
		RepairOCR:     s.cfg.RepairOCR,
	}
	if s.metrics != nil {
		resp.UptimeSecs = s.metrics.UptimeSeconds()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg.StoplistPath == "" {
		http.Error(w, "no stoplist file configured", http.StatusConflict)
		return
	}
	words, err := stoplist.Load(s.cfg.StoplistPath)
	if err != nil {
		s.log.Warnf("stoplist_reload", "%v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.SwapStoplist(words)
	writeJSON(w, http.StatusOK, map[string]any{"reloaded": len(words)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
