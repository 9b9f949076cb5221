// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/config"
	"thainame-scan/internal/docreader"
	"thainame-scan/internal/engine"
	"thainame-scan/internal/formatters"
	"thainame-scan/internal/version"
	"thainame-scan/internal/view"

	"github.com/charmbracelet/log"

	// Import formatters to register them
	_ "thainame-scan/internal/formatters/csv"
	_ "thainame-scan/internal/formatters/json"
	_ "thainame-scan/internal/formatters/text"
	_ "thainame-scan/internal/formatters/xlsx"
	_ "thainame-scan/internal/formatters/yaml"
)

//go:embed template.html
var homeTemplate []byte

// maxUploadSize caps a single uploaded document
const maxUploadSize = 32 << 20

// WebServer serves one extraction session over HTTP
type WebServer struct {
	port    string
	mux     *http.ServeMux
	session *engine.Session
	reader  engine.TextSource
	cfg     *config.Config
	logger  *log.Logger
	now     func() time.Time
}

// NamesResponse is the JSON body of every name list endpoint
type NamesResponse struct {
	Success   bool                  `json:"success"`
	Source    string                `json:"source,omitempty"`
	Extracted bool                  `json:"extracted"`
	Names     []aggregate.NameEntry `json:"names"`
	Distinct  int                   `json:"distinct"`
	Total     int                   `json:"total"`
	Search    string                `json:"search"`
	Sort      *SortInfo             `json:"sort,omitempty"`
	Arrows    map[string]string     `json:"arrows"`
	Warning   string                `json:"warning,omitempty"`
	Notices   []string              `json:"notices,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// SortInfo reports the applied sort
type SortInfo struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, session *engine.Session, reader engine.TextSource, cfg *config.Config, logger *log.Logger) *WebServer {
	if cfg == nil {
		cfg = config.LoadConfigOrDefault("")
	}
	if logger == nil {
		logger = log.Default()
	}
	ws := &WebServer{
		port:    port,
		mux:     http.NewServeMux(),
		session: session,
		reader:  reader,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
	ws.setupRoutes()
	return ws
}

// Handler returns the routed handler, for tests and embedding
func (ws *WebServer) Handler() http.Handler {
	return ws.mux
}

// Start listens on the configured port, trying the next nine ports when it is
// busy. It blocks until ctx is cancelled or the server fails.
func (ws *WebServer) Start(ctx context.Context) error {
	base, err := strconv.Atoi(ws.port)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", ws.port, err)
	}

	var lastError error
	for i := 0; i < 10; i++ {
		currentPort := strconv.Itoa(base + i)

		listener, err := net.Listen("tcp", ":"+currentPort)
		if err != nil {
			lastError = err
			if i == 0 {
				ws.logger.Warn("port not available, trying alternatives", "port", currentPort)
			}
			continue
		}
		return ws.serve(ctx, listener)
	}

	return fmt.Errorf("could not find an available port in range %d-%d: %w", base, base+9, lastError)
}

func (ws *WebServer) serve(ctx context.Context, listener net.Listener) error {
	server := ws.createSecureServer(listener.Addr().String())
	ws.logger.Info("web API started", "addr", listener.Addr().String())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				ws.logger.Warn("shutdown incomplete", "err", err)
			}
		case <-done:
		}
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on %s failed: %w", listener.Addr(), err)
	}
	return nil
}

func (ws *WebServer) setupRoutes() {
	ws.mux.HandleFunc("/", ws.serveHome)
	ws.mux.HandleFunc("/health", ws.handleHealth)
	ws.mux.HandleFunc("/api/extract", ws.handleExtract)
	ws.mux.HandleFunc("/api/names", ws.handleNames)
	ws.mux.HandleFunc("/api/sort", ws.handleSort)
	ws.mux.HandleFunc("/api/export", ws.handleExport)
	ws.mux.HandleFunc("/api/formats", ws.handleFormats)
}

// createSecureServer creates an HTTP server with security timeouts
func (ws *WebServer) createSecureServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           ws.mux,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (ws *WebServer) serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(homeTemplate)
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	build := version.Get()
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  ws.now().UTC().Format(time.RFC3339),
		"service":    version.Product + "-web",
		"version":    build.Version,
		"build_info": build,
	})
}

// handleExtract reads an uploaded document and replaces the session's list
func (ws *WebServer) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		ws.sendError(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		ws.sendError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	header := files[0]
	if !docreader.Supported(header.Filename) {
		ws.sendError(w, fmt.Sprintf("unsupported file type %q. Supported: %s",
			filepath.Ext(header.Filename), strings.Join(docreader.SupportedExtensions(), ", ")),
			http.StatusUnsupportedMediaType)
		return
	}

	tmpPath, err := ws.saveUpload(header)
	if err != nil {
		ws.sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmpPath)

	displayName := sanitizeUserInput(filepath.Base(header.Filename), 255)
	st, err := ws.session.ExtractFile(r.Context(), renamedSource{ws.reader, tmpPath, displayName}, displayName)
	switch {
	case err == nil:
		ws.logger.Info("extracted", "file", displayName, "names", len(st.Result.Entries))
		for _, notice := range st.Notices {
			ws.logger.Warn(notice, "file", displayName)
		}
		ws.sendState(w, st, "")
	case errors.Is(err, engine.ErrNoMatches):
		ws.logger.Warn("no names found", "file", displayName)
		ws.sendState(w, st, "no names found in file")
	case errors.Is(err, engine.ErrExtractionInProgress):
		ws.sendError(w, err.Error(), http.StatusConflict)
	case docreader.IsUnsupported(err):
		ws.sendError(w, err.Error(), http.StatusUnsupportedMediaType)
	case docreader.IsCorrupt(err):
		ws.sendError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		ws.logger.Error("extraction failed", "file", displayName, "err", err)
		ws.sendError(w, err.Error(), http.StatusInternalServerError)
	}
}

// saveUpload copies the upload to a temp file keeping its extension
func (ws *WebServer) saveUpload(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "thainame-upload-*."+getFileExtension(header.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return tmp.Name(), nil
}

// handleNames returns the current view. A q parameter sets the search term.
func (ws *WebServer) handleNames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if q, ok := r.URL.Query()["q"]; ok {
		term := ""
		if len(q) > 0 {
			term = q[0]
		}
		ws.sendState(w, ws.session.Filter(term), "")
		return
	}
	ws.sendState(w, ws.session.State(), "")
}

// handleSort applies the stored direction of a column and flips it
func (ws *WebServer) handleSort(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	col, err := view.ParseColumn(r.URL.Query().Get("column"))
	if err != nil {
		ws.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws.sendState(w, ws.session.Sort(col), "")
}

// handleExport streams the list in the requested format as an attachment
func (ws *WebServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = ws.cfg.Defaults.Format
	}
	if _, exists := formatters.Get(format); !exists {
		ws.sendError(w, fmt.Sprintf("Unsupported format '%s'. Available formats: %s",
			format, strings.Join(formatters.List(), ", ")), http.StatusBadRequest)
		return
	}

	orderParam := r.URL.Query().Get("order")
	if orderParam == "" {
		orderParam = ws.cfg.Defaults.ExportOrder
	}
	order, err := engine.ParseExportOrder(orderParam)
	if err != nil {
		ws.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	st := ws.session.State()
	entries := st.ExportEntries(order)
	if len(entries) == 0 {
		ws.sendError(w, formatters.ErrNothingToExport.Error(), http.StatusConflict)
		return
	}

	output, err := formatters.Render(format, entries, formatters.FormatterOptions{
		NameHeader:  ws.cfg.Export.NameHeader,
		CountHeader: ws.cfg.Export.CountHeader,
		SheetName:   ws.cfg.Export.SheetName,
		Source:      st.Source,
		NoColor:     true,
		View:        st.View,
	})
	if err != nil {
		ws.sendError(w, fmt.Sprintf("Failed to format results: %v", err), http.StatusInternalServerError)
		return
	}

	info := formatters.GetFormatInfo(format)
	filename := formatters.DefaultFileName(ws.now(), info.Extension)

	w.Header().Set("Content-Type", info.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(output)
}

func (ws *WebServer) handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	infos := make([]formatters.FormatInfo, 0)
	for _, name := range formatters.List() {
		infos = append(infos, formatters.GetFormatInfo(name))
	}
	ws.writeJSON(w, http.StatusOK, infos)
}

func (ws *WebServer) sendState(w http.ResponseWriter, st engine.State, warning string) {
	names := st.Visible()
	resp := NamesResponse{
		Success:   true,
		Source:    st.Source,
		Extracted: st.Extracted,
		Names:     names,
		Distinct:  len(st.Result.Entries),
		Total:     st.Result.Total(),
		Search:    st.View.Search,
		Arrows: map[string]string{
			string(view.ColumnName):  st.View.Arrow(view.ColumnName),
			string(view.ColumnCount): st.View.Arrow(view.ColumnCount),
		},
		Warning: warning,
		Notices: st.Notices,
	}
	if st.View.Sorted {
		resp.Sort = &SortInfo{Column: string(st.View.Column), Descending: st.View.Desc}
	}
	ws.writeJSON(w, http.StatusOK, resp)
}

func (ws *WebServer) sendError(w http.ResponseWriter, message string, statusCode int) {
	ws.writeJSON(w, statusCode, NamesResponse{
		Success: false,
		Names:   []aggregate.NameEntry{},
		Error:   enhanceErrorMessage(message, statusCode),
	})
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ws.logger.Debug("writing response failed", "err", err)
	}
}

// enhanceErrorMessage adds troubleshooting information to error messages
func enhanceErrorMessage(message string, statusCode int) string {
	switch {
	case strings.Contains(message, "Failed to parse form data"):
		return message + "\nTroubleshooting: Upload the document as multipart/form-data in a field named 'file'"
	case strings.Contains(message, "No file uploaded"):
		return message + "\nTroubleshooting: Select a .docx, .pdf or .txt document before extracting"
	case statusCode == http.StatusConflict && strings.Contains(message, "no data"):
		return message + "\nTroubleshooting: Extract a document containing names before exporting"
	case statusCode == http.StatusInternalServerError:
		return message + "\nTroubleshooting: Check server logs for detailed error information"
	default:
		return message
	}
}

// getFileExtension extracts file extension from filename with sanitization
func getFileExtension(filename string) string {
	if ext := filepath.Ext(filename); ext != "" {
		safeExt := strings.ToLower(sanitizeUserInput(strings.TrimPrefix(ext, "."), 10))
		if safeExt != "" && isAlphanumeric(safeExt) {
			return safeExt
		}
	}
	return "tmp"
}

// isAlphanumeric checks if string contains only ASCII letters and digits
func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// sanitizeUserInput removes control and markup characters from user input
func sanitizeUserInput(input string, maxLength int) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		switch r {
		case '<', '>', '"', '\'', '&':
			return -1
		}
		return r
	}, input)

	if runes := []rune(sanitized); len(runes) > maxLength {
		sanitized = string(runes[:maxLength]) + "..."
	}
	return sanitized
}

// renamedSource reads an upload's temp file while reporting the client's
// file name as the document path.
type renamedSource struct {
	reader  engine.TextSource
	tmpPath string
	name    string
}

func (s renamedSource) ReadText(ctx context.Context, _ string) (*docreader.Document, error) {
	doc, err := s.reader.ReadText(ctx, s.tmpPath)
	var readErr *docreader.ReadError
	if errors.As(err, &readErr) {
		readErr.Path = s.name
	}
	if doc != nil {
		doc.Path = s.name
	}
	return doc, err
}
