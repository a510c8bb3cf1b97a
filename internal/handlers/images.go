package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/FurkanKirci/BeautySalon/internal/media"
	"github.com/FurkanKirci/BeautySalon/internal/transport"
)

// serveImage streams a stored image with cache-busting headers so a
// re-upload under the same id is visible immediately.
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, store *media.Store, id string) {
	log := s.logWithRequest(r)
	path, ext, err := store.Open(id)
	if err != nil {
		if err == media.ErrNotFound {
			transport.WriteError(w, http.StatusNotFound, "image not found", nil)
			return
		}
		log.Error("image serve: lookup failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image serve failed", nil)
		return
	}

	file, err := os.Open(path)
	if err != nil {
		log.Error("image serve: open failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image serve failed", nil)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		log.Error("image serve: stat failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image serve failed", nil)
		return
	}

	w.Header().Set("Content-Type", media.ContentType(ext))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	w.Header().Set("ETag", fmt.Sprintf("%q", fmt.Sprintf("%s-%d", id, info.ModTime().UnixNano())))

	http.ServeContent(w, r, "", info.ModTime(), file)
}

func (s *Server) ServeServiceImage(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, s.ServicePhotos, chi.URLParam(r, "id"))
}

func (s *Server) ServeGalleryImage(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, s.GalleryImages, chi.URLParam(r, "id"))
}

func (s *Server) ServeCompanyIcon(w http.ResponseWriter, r *http.Request) {
	s.serveImage(w, r, s.CompanyIcons, chi.URLParam(r, "id"))
}
