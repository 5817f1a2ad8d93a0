package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/extraction"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/pantry"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/recipe"
)

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes an {"error": message} body
func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}

// maxJSONBody limits JSON request bodies to 1MB
const maxJSONBody = int64(1 << 20)

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response and reports false when the body is too large or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

type healthResponse struct {
	OK          bool                 `json:"ok"`
	FridgeCount int                  `json:"fridge_count"`
	HasRecipes  bool                 `json:"has_recipes"`
	Queue       *queueStatusResponse `json:"queue,omitempty"`
}

type queueStatusResponse struct {
	Length    int   `json:"length"`
	Capacity  int   `json:"capacity"`
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// handleHealth reports storage and recipe database state
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.services.Pantry.Count()
	if err != nil {
		slog.Error("Health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}

	resp := healthResponse{
		OK:          true,
		FridgeCount: count,
		HasRecipes:  s.services.Recipes.HasRecipes(r.Context()),
	}
	if s.services.Queue != nil {
		st := s.services.Queue.Status()
		resp.Queue = &queueStatusResponse{
			Length:    st.QueueLength,
			Capacity:  st.MaxQueueSize,
			Workers:   st.Workers,
			Processed: st.Processed,
			Failed:    st.Failed,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListFridge returns the fridge contents, most recently added first
func (s *Server) handleListFridge(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Pantry.List()
	if err != nil {
		slog.Error("Error listing fridge", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if items == nil {
		items = []*pantry.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type addFridgeRequest struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
}

// handleAddFridge adds one of an ingredient, or sets its quantity when one is
// given
func (s *Server) handleAddFridge(w http.ResponseWriter, r *http.Request) {
	var req addFridgeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		item *pantry.Item
		err  error
	)
	if req.Quantity == nil {
		item, err = s.services.Pantry.Add(req.Name)
	} else {
		item, err = s.services.Pantry.SetQuantity(req.Name, *req.Quantity)
	}
	switch {
	case errors.Is(err, pantry.ErrInvalidName), errors.Is(err, pantry.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("Error adding to fridge", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// handleDeleteFridge removes an ingredient from the fridge
func (s *Server) handleDeleteFridge(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	err := s.services.Pantry.Delete(name)
	switch {
	case errors.Is(err, pantry.ErrNotFound):
		writeError(w, http.StatusNotFound, "Item not found")
		return
	case errors.Is(err, pantry.ErrInvalidName):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("Error deleting from fridge", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSuggestions ranks the stored recipe suggestions against the fridge
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.services.Recipes.Suggestions(r.Context())
	s.writeRanked(w, ranked, err)
}

// handleCatalog ranks the built-in catalog against the fridge
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.services.Recipes.Catalog(r.Context())
	s.writeRanked(w, ranked, err)
}

func (s *Server) writeRanked(w http.ResponseWriter, ranked []recipe.Ranked, err error) {
	if err != nil {
		slog.Error("Error ranking recipes", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if ranked == nil {
		ranked = []recipe.Ranked{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipes": ranked})
}

type extractRequest struct {
	Text string `json:"text"`
}

// handleExtract runs the receipt extractor over posted text without touching
// the fridge
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ingredients": extraction.Ingredients(req.Text)})
}
