package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/FurkanKirci/BeautySalon/internal/media"
)

func newImageTestServer(t *testing.T) (*Server, *media.Store) {
	t.Helper()
	store := media.NewStore(t.TempDir())
	srv := &Server{
		Log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		ServicePhotos: store,
	}
	return srv, store
}

func imageRouter(srv *Server) chi.Router {
	r := chi.NewRouter()
	r.Get("/service-image/{id}", srv.ServeServiceImage)
	return r
}

func TestServeServiceImage(t *testing.T) {
	srv, store := newImageTestServer(t)

	payload := []byte("not-really-a-png")
	if _, _, err := store.Save("svc1", payload, "image/png", "photo.png"); err != nil {
		t.Fatalf("save: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/service-image/svc1", nil)
	rec := httptest.NewRecorder()
	imageRouter(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.Bytes(); string(got) != string(payload) {
		t.Error("served bytes differ from stored bytes")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache, no-store, must-revalidate" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
	if rec.Header().Get("Last-Modified") == "" {
		t.Error("missing Last-Modified")
	}
}

func TestServeServiceImageJPEG(t *testing.T) {
	srv, store := newImageTestServer(t)

	if _, _, err := store.Save("svc2", []byte("jpeg-bytes"), "image/jpeg", "photo.jpg"); err != nil {
		t.Fatalf("save: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/service-image/svc2", nil)
	rec := httptest.NewRecorder()
	imageRouter(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
}

func TestServeServiceImageMissing(t *testing.T) {
	srv, _ := newImageTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/service-image/ghost", nil)
	rec := httptest.NewRecorder()
	imageRouter(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestServeServiceImageGoneAfterRemove(t *testing.T) {
	srv, store := newImageTestServer(t)

	if _, _, err := store.Save("svc3", []byte("x"), "image/png", "a.png"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove("svc3"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/service-image/svc3", nil)
	rec := httptest.NewRecorder()
	imageRouter(srv).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
