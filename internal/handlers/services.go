package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FurkanKirci/BeautySalon/internal/httpx"
	"github.com/FurkanKirci/BeautySalon/internal/models"
	"github.com/FurkanKirci/BeautySalon/internal/transport"
)

type ServiceRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
}

// parseServiceRequest accepts either a JSON body or a multipart form
// with an optional "image" file, the shape the dashboard submits.
func parseServiceRequest(r *http.Request) (ServiceRequest, []byte, string, string, error) {
	var req ServiceRequest
	if !httpx.IsMultipart(r) {
		err := httpx.DecodeJSON(r.Body, &req)
		return req, nil, "", "", err
	}

	data, declaredType, fileName, err := httpx.FormFile(r, "image")
	if err != nil {
		return req, nil, "", "", err
	}

	form := r.MultipartForm
	req.Name = httpx.FormValue(form, "name")
	req.Description = httpx.FormValue(form, "description")
	req.Category = httpx.FormValue(form, "category")
	if raw := httpx.FormValue(form, "duration"); raw != "" {
		req.Duration, err = strconv.Atoi(raw)
		if err != nil {
			return req, nil, "", "", err
		}
	}
	if raw := httpx.FormValue(form, "price"); raw != "" {
		req.Price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, nil, "", "", err
		}
	}
	return req, data, declaredType, fileName, nil
}

func (s *Server) GetServices(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	cacheKey := "services:all"
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("services: cache hit")
			writeCachedJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := s.Cols.Services.Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Error("services: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := make([]models.Service, 0)
	for cursor.Next(ctx) {
		var svc models.Service
		if err := cursor.Decode(&svc); err != nil {
			log.Error("services: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "decode error", nil)
			return
		}
		items = append(items, svc)
	}
	if err := cursor.Err(); err != nil {
		log.Error("services: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cursor error", nil)
		return
	}

	response := map[string]interface{}{"services": items}

	if payload, err := encodeJSON(response); err == nil && s.Cache != nil {
		_ = s.Cache.Set(r.Context(), cacheKey, payload, time.Duration(s.Cfg.CacheTTLSeconds)*time.Second)
	}

	log.Info("services: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (s *Server) GetServicesByCategory(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := s.Cols.Services.Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Error("services by category: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	grouped := make(map[string][]models.Service)
	for cursor.Next(ctx) {
		var svc models.Service
		if err := cursor.Decode(&svc); err != nil {
			log.Error("services by category: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "decode error", nil)
			return
		}
		category := svc.Category
		if category == "" {
			category = "Other"
		}
		grouped[category] = append(grouped[category], svc)
	}
	if err := cursor.Err(); err != nil {
		log.Error("services by category: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cursor error", nil)
		return
	}

	log.Info("services by category: ok", slog.Int("categories", len(grouped)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"services": grouped})
}

func (s *Server) GetService(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	var svc models.Service
	if err := s.Cols.Services.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("services get: not found", slog.String("service_id", id))
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		log.Error("services get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, svc)
}

func (s *Server) AdminCreateService(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	req, imageData, imageType, imageName, err := parseServiceRequest(r)
	if err != nil {
		log.Warn("admin services create: invalid request")
		transport.WriteError(w, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin services create: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	service := models.Service{
		ID:          primitive.NewObjectID().Hex(),
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		Category:    req.Category,
		Image:       nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	if _, err := s.Cols.Services.InsertOne(ctx, service); err != nil {
		log.Error("admin services create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if len(imageData) > 0 {
		fileName, _, err := s.ServicePhotos.Save(service.ID, imageData, imageType, imageName)
		if err != nil {
			// The service row exists; the image can be re-uploaded later.
			log.Error("admin services create: image save failed",
				slog.String("service_id", service.ID), slog.String("error", err.Error()))
		} else {
			if _, err := s.Cols.Services.UpdateOne(ctx, bson.M{"_id": service.ID},
				bson.M{"$set": bson.M{"image": fileName}}); err != nil {
				log.Error("admin services create: image field update failed", slog.String("error", err.Error()))
			} else {
				service.Image = &fileName
			}
		}
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(r.Context(), "services:all")
	}

	log.Info("admin services create: ok", slog.String("service_id", service.ID))
	transport.WriteJSON(w, http.StatusCreated, service)
}

func (s *Server) AdminUpdateService(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	req, imageData, imageType, imageName, err := parseServiceRequest(r)
	if err != nil {
		log.Warn("admin services update: invalid request")
		transport.WriteError(w, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin services update: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	set := bson.M{
		"name":        req.Name,
		"description": req.Description,
		"duration":    req.Duration,
		"price":       req.Price,
		"category":    req.Category,
		"updatedAt":   time.Now().In(s.Cfg.Timezone),
	}

	if len(imageData) > 0 {
		fileName, _, err := s.ServicePhotos.Save(id, imageData, imageType, imageName)
		if err != nil {
			log.Error("admin services update: image save failed",
				slog.String("service_id", id), slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "image save failed", nil)
			return
		}
		set["image"] = fileName
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	res, err := s.Cols.Services.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		log.Error("admin services update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.MatchedCount == 0 {
		log.Warn("admin services update: not found", slog.String("service_id", id))
		transport.WriteError(w, http.StatusNotFound, "service not found", nil)
		return
	}

	var svc models.Service
	if err := s.Cols.Services.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		log.Error("admin services update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(r.Context(), "services:all")
	}

	log.Info("admin services update: ok", slog.String("service_id", id))
	transport.WriteJSON(w, http.StatusOK, svc)
}

func (s *Server) AdminDeleteService(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	res, err := s.Cols.Services.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("admin services delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.DeletedCount == 0 {
		log.Warn("admin services delete: not found", slog.String("service_id", id))
		transport.WriteError(w, http.StatusNotFound, "service not found", nil)
		return
	}

	// Best effort: a leftover file is harmless, the row is gone.
	if err := s.ServicePhotos.Remove(id); err != nil {
		log.Warn("admin services delete: image remove failed",
			slog.String("service_id", id), slog.String("error", err.Error()))
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(r.Context(), "services:all")
	}

	log.Info("admin services delete: ok", slog.String("service_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) AdminUploadServiceImage(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	data, declaredType, fileName, err := httpx.FormFile(r, "image")
	if err != nil || len(data) == 0 {
		log.Warn("admin services image: missing file")
		transport.WriteError(w, http.StatusBadRequest, "missing image file", nil)
		return
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	if err := s.Cols.Services.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			transport.WriteError(w, http.StatusNotFound, "service not found", nil)
			return
		}
		log.Error("admin services image: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	stored, _, err := s.ServicePhotos.Save(id, data, declaredType, fileName)
	if err != nil {
		log.Error("admin services image: save failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image save failed", nil)
		return
	}

	if _, err := s.Cols.Services.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"image": stored, "updatedAt": time.Now().In(s.Cfg.Timezone)}}); err != nil {
		log.Error("admin services image: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(r.Context(), "services:all")
	}

	log.Info("admin services image: ok", slog.String("service_id", id), slog.String("file", stored))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"fileName": stored})
}

func (s *Server) AdminDeleteServiceImage(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	if err := s.ServicePhotos.Remove(id); err != nil {
		log.Error("admin services image delete: remove failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "image delete failed", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	if _, err := s.Cols.Services.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"image": nil, "updatedAt": time.Now().In(s.Cfg.Timezone)}}); err != nil {
		log.Error("admin services image delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(r.Context(), "services:all")
	}

	log.Info("admin services image delete: ok", slog.String("service_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
