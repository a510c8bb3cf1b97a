package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FurkanKirci/BeautySalon/internal/cache"
	"github.com/FurkanKirci/BeautySalon/internal/httpx"
	"github.com/FurkanKirci/BeautySalon/internal/middleware"
	"github.com/FurkanKirci/BeautySalon/internal/transport"
	"github.com/FurkanKirci/BeautySalon/internal/validation"
)

const listCacheKey = "gallery:all"

type Handler struct {
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, cacheStore cache.Cache, cacheTTL time.Duration) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

func (h *Handler) invalidateList(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.Delete(ctx, listCacheKey)
	}
}

// parseUpsert accepts either JSON or a multipart form with an optional
// "image" file, mirroring how the dashboard submits gallery entries.
func parseUpsert(r *http.Request) (UpsertRequest, *Upload, error) {
	var req UpsertRequest
	if !httpx.IsMultipart(r) {
		err := httpx.DecodeJSON(r.Body, &req)
		return req, nil, err
	}

	data, declaredType, fileName, err := httpx.FormFile(r, "image")
	if err != nil {
		return req, nil, err
	}

	form := r.MultipartForm
	req.Title = httpx.FormValue(form, "title")
	req.Category = httpx.FormValue(form, "category")
	req.Description = httpx.FormValue(form, "description")

	if len(data) == 0 {
		return req, nil, nil
	}
	return req, &Upload{Data: data, DeclaredType: declaredType, FileName: fileName}, nil
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	filter := ListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}

	// Only the unfiltered listing is cached; category reads are rare.
	if filter.Category == "" && h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), listCacheKey); err == nil && ok {
			log.Info("gallery list: cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, filter)
	if err != nil {
		log.Error("gallery list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{"gallery": items}

	if filter.Category == "" && h.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			_ = h.cache.Set(r.Context(), listCacheKey, payload, h.cacheTTL)
		}
	}

	log.Info("gallery list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) PublicListByCategory(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, ListFilter{})
	if err != nil {
		log.Error("gallery by category: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	grouped := make(map[string][]Item)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		grouped[category] = append(grouped[category], item)
	}

	log.Info("gallery by category: ok", slog.Int("categories", len(grouped)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"gallery": grouped})
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("gallery get: not found", slog.String("gallery_id", id))
			transport.WriteError(w, http.StatusNotFound, "gallery item not found", nil)
			return
		}
		log.Error("gallery get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("gallery get: ok", slog.String("gallery_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"item": item})
}

func (h *Handler) AdminAdd(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	req, upload, err := parseUpsert(r)
	if err != nil {
		log.Warn("admin gallery add: invalid request")
		transport.WriteError(w, http.StatusBadRequest, "invalid request", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin gallery add: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}
	if upload == nil {
		log.Warn("admin gallery add: missing image")
		transport.WriteError(w, http.StatusBadRequest, "missing image file", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Add(ctx, req, upload)
	if err != nil {
		log.Error("admin gallery add: save failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "save failed", nil)
		return
	}

	h.invalidateList(r.Context())
	log.Info("admin gallery add: ok", slog.String("gallery_id", item.ID))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin gallery update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	req, upload, err := parseUpsert(r)
	if err != nil {
		log.Warn("admin gallery update: invalid request")
		transport.WriteError(w, http.StatusBadRequest, "invalid request", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin gallery update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req, upload)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin gallery update: not found", slog.String("gallery_id", id))
			transport.WriteError(w, http.StatusNotFound, "gallery item not found", nil)
			return
		}
		log.Error("admin gallery update: save failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "save failed", nil)
		return
	}

	h.invalidateList(r.Context())
	log.Info("admin gallery update: ok", slog.String("gallery_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin gallery delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin gallery delete: not found", slog.String("gallery_id", id))
			transport.WriteError(w, http.StatusNotFound, "gallery item not found", nil)
			return
		}
		log.Error("admin gallery delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateList(r.Context())
	log.Info("admin gallery delete: ok", slog.String("gallery_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminUploadImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	data, declaredType, fileName, err := httpx.FormFile(r, "image")
	if err != nil || len(data) == 0 {
		log.Warn("admin gallery image: missing file")
		transport.WriteError(w, http.StatusBadRequest, "missing image file", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	stored, err := h.service.SetImage(ctx, id, Upload{Data: data, DeclaredType: declaredType, FileName: fileName})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "gallery item not found", nil)
			return
		}
		log.Error("admin gallery image: save failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image save failed", nil)
		return
	}

	h.invalidateList(r.Context())
	log.Info("admin gallery image: ok", slog.String("gallery_id", id), slog.String("file", stored))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"fileName": stored})
}

func (h *Handler) AdminDeleteImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.RemoveImage(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "gallery item not found", nil)
			return
		}
		log.Error("admin gallery image delete: failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image delete failed", nil)
		return
	}

	h.invalidateList(r.Context())
	log.Info("admin gallery image delete: ok", slog.String("gallery_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	log := h.log
	if r == nil {
		return log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		log = log.With(slog.String("request_id", id))
	}
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		log = log.With(slog.String("user_id", claims.UserID))
	}
	return log
}
