package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"laserlab/internal/domain"
	"laserlab/internal/ports"
)

// Route paths served by the row server
const (
	RowsPath    = "/data.csv"
	SavePath    = "/api/save-data"
	LibraryPath = "/api/library"
)

// MaxBodyBytes bounds the size of an uploaded row document
const MaxBodyBytes = 8 << 20

// ServerConfig configures the row server
type ServerConfig struct {
	Rows     ports.RowSource
	Sink     ports.RowSink
	Catalog  *domain.Catalog
	AssetDir string // optional; serves the component SVGs when set
	Logger   *slog.Logger
}

// Server serves the flat row file and the component library
type Server struct {
	cfg    ServerConfig
	logger *slog.Logger
}

// NewServer creates a row server
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = domain.BuiltinCatalog()
	}
	return &Server{cfg: cfg, logger: logger}
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+RowsPath, s.handleRows)
	mux.HandleFunc("POST "+SavePath, s.handleSave)
	mux.HandleFunc("GET "+LibraryPath, s.handleLibrary)
	if s.cfg.AssetDir != "" {
		mux.Handle("GET "+domain.AssetBasePath, http.StripPrefix(domain.AssetBasePath, http.FileServer(http.Dir(s.cfg.AssetDir))))
	}
	return withRequestLog(s.logger, withSecurityHeaders(mux))
}

// SaveResponse is the JSON body answering a save
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	text, err := s.cfg.Rows.FetchRows(r.Context())
	if err != nil {
		s.logger.Error("failed to read rows", "error", err)
		http.Error(w, "failed to read rows", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.logger.Warn("rejected row upload", "error", err)
		writeJSON(w, http.StatusBadRequest, SaveResponse{Success: false, Message: "Error reading request body"})
		return
	}

	if err := s.cfg.Sink.SaveRows(r.Context(), string(body)); err != nil {
		s.logger.Error("failed to save rows", "error", err)
		writeJSON(w, http.StatusInternalServerError, SaveResponse{Success: false, Message: "Error saving data"})
		return
	}

	s.logger.Info("rows saved", "bytes", len(body))
	writeJSON(w, http.StatusOK, SaveResponse{Success: true, Message: "Data saved successfully"})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Catalog.Entries())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
