package handlers

import (
	"log/slog"
	"net/http"
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

type SettingsRequest struct {
	CompanyName        string   `json:"companyName" validate:"required"`
	CompanyDescription string   `json:"companyDescription"`
	Address            string   `json:"address"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email" validate:"omitempty,email"`
	WorkingHours       string   `json:"workingHours"`
	GoogleMapsURL      string   `json:"googleMapsUrl"`
	InstagramURL       string   `json:"instagramUrl"`
	FacebookURL        string   `json:"facebookUrl"`
	TwitterURL         string   `json:"twitterUrl"`
	ServiceCategories  []string `json:"serviceCategories"`
}

func (s *Server) loadSettings(r *http.Request) (*models.Settings, error) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	var settings models.Settings
	err := s.Cols.Settings.FindOne(ctx, bson.D{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	settings, err := s.loadSettings(r)
	if err != nil {
		log.Error("settings get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	// No document yet is still a 200; the dashboard treats null as "unconfigured".
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

// GetContactInfo serves the subset the public contact page renders,
// with placeholder values until settings are saved.
func (s *Server) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	settings, err := s.loadSettings(r)
	if err != nil {
		log.Error("settings contact: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	info := map[string]string{
		"address":       "Adres bilgisi eklenmemiş",
		"phone":         "Telefon bilgisi eklenmemiş",
		"email":         "E-posta bilgisi eklenmemiş",
		"workingHours":  "Çalışma saatleri eklenmemiş",
		"googleMapsUrl": "",
		"instagramUrl":  "",
		"facebookUrl":   "",
		"twitterUrl":    "",
	}
	if settings != nil {
		if settings.Address != "" {
			info["address"] = settings.Address
		}
		if settings.Phone != "" {
			info["phone"] = settings.Phone
		}
		if settings.Email != "" {
			info["email"] = settings.Email
		}
		if settings.WorkingHours != "" {
			info["workingHours"] = settings.WorkingHours
		}
		info["googleMapsUrl"] = settings.GoogleMapsURL
		info["instagramUrl"] = settings.InstagramURL
		info["facebookUrl"] = settings.FacebookURL
		info["twitterUrl"] = settings.TwitterURL
	}

	transport.WriteJSON(w, http.StatusOK, info)
}

// GetCompanyInfo serves the site header data: name, description, icon.
func (s *Server) GetCompanyInfo(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	settings, err := s.loadSettings(r)
	if err != nil {
		log.Error("settings company: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	info := map[string]string{
		"companyName":        "Güzellik Salonu",
		"companyDescription": "",
		"icon":               "",
	}
	if settings != nil {
		if settings.CompanyName != "" {
			info["companyName"] = settings.CompanyName
		}
		info["companyDescription"] = settings.CompanyDescription
		info["icon"] = settings.Icon
	}

	transport.WriteJSON(w, http.StatusOK, info)
}

// AdminSaveSettings replaces the whole settings document, creating it
// on first save. Icon is managed by its own endpoints and preserved.
func (s *Server) AdminSaveSettings(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req SettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("admin settings save: invalid request")
		transport.WriteError(w, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin settings save: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	current, err := s.loadSettings(r)
	if err != nil {
		log.Error("admin settings save: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	categories := req.ServiceCategories
	if categories == nil {
		categories = []string{}
	}

	settings := models.Settings{
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		Address:            req.Address,
		Phone:              req.Phone,
		Email:              req.Email,
		WorkingHours:       req.WorkingHours,
		GoogleMapsURL:      req.GoogleMapsURL,
		InstagramURL:       req.InstagramURL,
		FacebookURL:        req.FacebookURL,
		TwitterURL:         req.TwitterURL,
		ServiceCategories:  categories,
		UpdatedAt:          now,
	}

	if current == nil {
		settings.ID = primitive.NewObjectID().Hex()
		settings.CreatedAt = now
		if _, err := s.Cols.Settings.InsertOne(ctx, settings); err != nil {
			log.Error("admin settings save: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
	} else {
		settings.ID = current.ID
		settings.Icon = current.Icon
		settings.CreatedAt = current.CreatedAt
		opts := options.Replace().SetUpsert(true)
		if _, err := s.Cols.Settings.ReplaceOne(ctx, bson.M{"_id": current.ID}, settings, opts); err != nil {
			log.Error("admin settings save: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
	}

	log.Info("admin settings save: ok", slog.String("settings_id", settings.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

func (s *Server) AdminUploadCompanyIcon(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	data, declaredType, fileName, err := httpx.FormFile(r, "icon")
	if err != nil || len(data) == 0 {
		log.Warn("admin settings icon: missing file")
		transport.WriteError(w, http.StatusBadRequest, "missing icon file", nil)
		return
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	if err := s.Cols.Settings.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			transport.WriteError(w, http.StatusNotFound, "settings not found", nil)
			return
		}
		log.Error("admin settings icon: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	stored, _, err := s.CompanyIcons.Save(id, data, declaredType, fileName)
	if err != nil {
		log.Error("admin settings icon: save failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "icon save failed", nil)
		return
	}

	if _, err := s.Cols.Settings.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"icon": stored, "updatedAt": time.Now().In(s.Cfg.Timezone)}}); err != nil {
		log.Error("admin settings icon: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin settings icon: ok", slog.String("settings_id", id), slog.String("file", stored))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"fileName": stored})
}

func (s *Server) AdminDeleteCompanyIcon(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	if err := s.CompanyIcons.Remove(id); err != nil {
		log.Error("admin settings icon delete: remove failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "icon delete failed", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	if _, err := s.Cols.Settings.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"icon": "", "updatedAt": time.Now().In(s.Cfg.Timezone)}}); err != nil {
		log.Error("admin settings icon delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin settings icon delete: ok", slog.String("settings_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
