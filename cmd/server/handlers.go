//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/himanishpuri/freetar/pkg/freetar"
	"github.com/himanishpuri/freetar/pkg/logger"
	"github.com/himanishpuri/freetar/pkg/models"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service freetar.Service
	config  *ServerConfig
	log     freetar.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Database       string
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(service freetar.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger().With("http"),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// respondServiceError maps a service error onto its HTTP status.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var e *models.Error
	if !errors.As(err, &e) {
		s.log.Errorf("Request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	switch e.Kind {
	case models.KindNotFound:
		s.respondError(w, http.StatusNotFound, e.Error())
	case models.KindInvalidArgument:
		s.respondError(w, http.StatusBadRequest, e.Error())
	case models.KindInvalidPayload, models.KindDataNotFound:
		s.respondError(w, http.StatusUnprocessableEntity, e.Error())
	default:
		s.log.Errorf("Request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

// decodeJSON reads a JSON request body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return false
	}
	return true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	return data, true
}

// renderOptions reads ?transpose= and ?capo= from the query string.
func renderOptions(r *http.Request) (freetar.RenderOptions, error) {
	var opts freetar.RenderOptions
	q := r.URL.Query()
	if v := q.Get("transpose"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("'transpose' must be an integer")
		}
		opts.Transpose = n
	}
	if v := q.Get("capo"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("'capo' must be an integer")
		}
		opts.Capo = n
	}
	return opts, nil
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"service": "freetar API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":          "GET /health",
			"metrics":         "GET /api/health/metrics",
			"tabs":            "GET /api/tabs",
			"importTab":       "POST /api/tabs",
			"renderTab":       "GET /api/tabs/{id}?transpose=&capo=",
			"deleteTab":       "DELETE /api/tabs/{id}",
			"exportChordPro":  "GET /api/tabs/{id}/chordpro",
			"favoriteTab":     "POST /api/tabs/{id}/favorite",
			"parseChordPro":   "POST /api/chordpro",
			"favorites":       "GET /api/favorites",
			"exportFavorites": "GET /api/favorites/export",
			"importFavorites": "POST /api/favorites/import",
			"setlists":        "GET /api/setlists",
			"stage":           "GET /api/setlists/{id}/stage",
			"shared":          "GET /api/shared/{token}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tabs, err := s.service.ListTabs(ctx)
	if err != nil {
		s.log.Errorf("Failed to count tabs: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}
	favs, err := s.service.ListFavorites(ctx)
	if err != nil {
		s.log.Errorf("Failed to count favorites: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}
	lists, err := s.service.ListSetlists(ctx)
	if err != nil {
		s.log.Errorf("Failed to count setlists: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:        "healthy",
		Database:      s.config.Database,
		TabCount:      len(tabs),
		FavoriteCount: len(favs),
		SetlistCount:  len(lists),
	})
}

// handleListTabs handles GET /api/tabs
func (s *Server) handleListTabs(w http.ResponseWriter, r *http.Request) {
	tabs, err := s.service.ListTabs(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	dtos := make([]TabDTO, len(tabs))
	for i, rec := range tabs {
		dtos[i] = newTabDTO(rec)
	}
	s.respondJSON(w, http.StatusOK, ListTabsResponse{Tabs: dtos, Count: len(dtos)})
}

// handleImportTab handles POST /api/tabs with a scraped tab document as body
func (s *Server) handleImportTab(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	rec, created, err := s.service.ImportTab(r.Context(), body)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	status, msg := http.StatusCreated, "Tab imported successfully"
	if !created {
		status, msg = http.StatusOK, "Tab already imported"
	}
	s.respondJSON(w, status, ImportTabResponse{Message: msg, Created: created, Tab: rec})
}

// handleGetTab handles GET /api/tabs/{id}
func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.service.RenderTab(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

// handleDeleteTab handles DELETE /api/tabs/{id}
func (s *Server) handleDeleteTab(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.DeleteTab(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DeleteResponse{Message: "Tab deleted successfully", ID: id})
}

// handleExportChordPro handles GET /api/tabs/{id}/chordpro. The document is
// sent as a .cho attachment unless ?format=json is given.
func (s *Server) handleExportChordPro(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.service.ExportChordPro(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		s.respondJSON(w, http.StatusOK, out)
		return
	}
	s.sendAttachment(w, "text/plain; charset=utf-8", out.Filename, []byte(out.Content))
}

// handleFavoriteTab handles POST /api/tabs/{id}/favorite
func (s *Server) handleFavoriteTab(w http.ResponseWriter, r *http.Request) {
	fav, err := s.service.FavoriteTab(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, fav)
}

// handleParseChordPro handles POST /api/chordpro with ChordPro text as body
func (s *Server) handleParseChordPro(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	out, err := s.service.ImportChordPro(string(body), opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, out)
}

// handleListFavorites handles GET /api/favorites
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.service.ListFavorites(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, favs)
}

// handleAddFavorite handles POST /api/favorites
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var fav models.FavoriteTab
	if !s.decodeJSON(w, r, &fav) {
		return
	}
	if err := s.service.AddFavorite(r.Context(), fav); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, fav)
}

// handleRemoveFavorite handles DELETE /api/favorites?tab_url=
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	tabURL := r.URL.Query().Get("tab_url")
	if tabURL == "" {
		s.respondError(w, http.StatusBadRequest, "tab_url is required")
		return
	}
	if err := s.service.RemoveFavorite(r.Context(), tabURL); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DeleteResponse{Message: "Favorite removed"})
}

// handleExportFavorites handles GET /api/favorites/export
func (s *Server) handleExportFavorites(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportFavorites(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.sendAttachment(w, "application/json", freetar.FavoritesFile, data)
}

// handleImportFavorites handles POST /api/favorites/import
func (s *Server) handleImportFavorites(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	n, err := s.service.ImportFavorites(r.Context(), body)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ImportFavoritesResponse{Imported: n})
}

// handleListSetlists handles GET /api/setlists
func (s *Server) handleListSetlists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.service.ListSetlists(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, lists)
}

// handleCreateSetlist handles POST /api/setlists
func (s *Server) handleCreateSetlist(w http.ResponseWriter, r *http.Request) {
	var req CreateSetlistRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sl, err := s.service.CreateSetlist(r.Context(), req.Name, req.Description)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, sl)
}

// handleGetSetlist handles GET /api/setlists/{id}
func (s *Server) handleGetSetlist(w http.ResponseWriter, r *http.Request) {
	sl, err := s.service.GetSetlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sl)
}

// handleUpdateSetlist handles PUT /api/setlists/{id}
func (s *Server) handleUpdateSetlist(w http.ResponseWriter, r *http.Request) {
	var req UpdateSetlistRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	sl, err := s.service.UpdateSetlist(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sl)
}

// handleDeleteSetlist handles DELETE /api/setlists/{id}
func (s *Server) handleDeleteSetlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.DeleteSetlist(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DeleteResponse{Message: "Setlist deleted successfully", ID: id})
}

// handleStage handles GET /api/setlists/{id}/stage
func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	stage, err := s.service.StageView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stage)
}

// handleAddItem handles POST /api/setlists/{id}/items
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		item *models.SetlistItem
		err  error
	)
	setlistID := chi.URLParam(r, "id")
	if req.TabID != "" {
		item, err = s.service.AddTabToSetlist(r.Context(), setlistID, req.TabID, req.Notes)
	} else {
		item, err = s.service.AddToSetlist(r.Context(), setlistID, req.item())
	}
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, item)
}

// handleReorderItems handles PUT /api/setlists/{id}/items/order
func (s *Server) handleReorderItems(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	setlistID := chi.URLParam(r, "id")
	if err := s.service.ReorderSetlist(r.Context(), setlistID, req.ItemIDs); err != nil {
		s.respondServiceError(w, err)
		return
	}
	sl, err := s.service.GetSetlist(r.Context(), setlistID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sl)
}

// handleUpdateItem handles PUT /api/setlists/{id}/items/{itemID}
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var upd models.SetlistItemUpdate
	if !s.decodeJSON(w, r, &upd) {
		return
	}
	item, err := s.service.UpdateSetlistItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), upd)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

// handleRemoveItem handles DELETE /api/setlists/{id}/items/{itemID}
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if err := s.service.RemoveFromSetlist(r.Context(), chi.URLParam(r, "id"), itemID); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DeleteResponse{Message: "Item removed", ID: itemID})
}

// handleShare handles POST /api/setlists/{id}/share
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	token, err := s.service.ShareSetlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ShareResponse{ShareToken: token, Path: "/api/shared/" + token})
}

// handleUnshare handles DELETE /api/setlists/{id}/share
func (s *Server) handleUnshare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.UnshareSetlist(r.Context(), id); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, DeleteResponse{Message: "Setlist is no longer shared", ID: id})
}

// handleShared handles GET /api/shared/{token}
func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	stage, err := s.service.SharedStageView(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stage)
}

func (s *Server) sendAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Errorf("Failed to write %s: %v", filename, err)
	}
}
