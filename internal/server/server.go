package server

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/pantry"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/receipt"
	"github.com/arrowarcher1/Fresh-from-the-Fridge/internal/recipe"
)

// Pantry is the fridge inventory as the handlers use it
type Pantry interface {
	List() ([]*pantry.Item, error)
	Count() (int, error)
	Add(name string) (*pantry.Item, error)
	SetQuantity(name string, quantity int) (*pantry.Item, error)
	Delete(name string) error
}

// Recipes ranks recipes against the fridge
type Recipes interface {
	Catalog(ctx context.Context) ([]recipe.Ranked, error)
	Suggestions(ctx context.Context) ([]recipe.Ranked, error)
	HasRecipes(ctx context.Context) bool
}

// Receipts stores uploaded receipts and queues them for reading
type Receipts interface {
	Upload(filename string, data []byte, contentType string) (*receipt.Receipt, error)
	GetReceipt(id string) (*receipt.Receipt, error)
	ListReceipts() ([]*receipt.Receipt, error)
	DeleteReceipt(id string) error
	GetReceiptFile(id string) ([]byte, string, error)
}

// Queue reports the state of the receipt workers
type Queue interface {
	Status() receipt.WorkerStatus
}

// Services groups what the server delegates to
type Services struct {
	Pantry   Pantry
	Recipes  Recipes
	Receipts Receipts
	Queue    Queue
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// Server handles HTTP requests for the fridge, recipes and receipts
type Server struct {
	services  Services
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(services Services, basicAuth BasicAuth) *Server {
	return NewServerWithMux(services, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(services Services, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		services:  services,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Fresh from the Fridge"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Fridge
	s.mux.HandleFunc("GET /api/fridge", s.requireAuth(s.handleListFridge))
	s.mux.HandleFunc("POST /api/fridge", s.requireAuth(s.handleAddFridge))
	s.mux.HandleFunc("DELETE /api/fridge/{name}", s.requireAuth(s.handleDeleteFridge))

	// Recipes
	s.mux.HandleFunc("GET /api/recipes/catalog", s.requireAuth(s.handleCatalog))
	s.mux.HandleFunc("GET /api/recipes", s.requireAuth(s.handleSuggestions))

	// Receipts
	s.mux.HandleFunc("GET /api/receipts/{id}/file", s.requireAuth(s.handleGetReceiptFile))
	s.mux.HandleFunc("GET /api/receipts/{id}", s.requireAuth(s.handleGetReceipt))
	s.mux.HandleFunc("DELETE /api/receipts/{id}", s.requireAuth(s.handleDeleteReceipt))
	s.mux.HandleFunc("GET /api/receipts", s.requireAuth(s.handleListReceipts))
	s.mux.HandleFunc("POST /api/receipts", s.requireAuth(s.handleUploadReceipt))
	s.mux.HandleFunc("POST /api/extract", s.requireAuth(s.handleExtract))

	s.mux.HandleFunc("GET /{$}", s.requireAuth(s.handleIndex))
	s.mux.HandleFunc("GET /index.html", s.requireAuth(s.handleIndex))
}

// ServeHTTP adds CORS headers, answers preflight requests and dispatches to
// the mux
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
