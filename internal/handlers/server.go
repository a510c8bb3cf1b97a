package handlers

import (
	"log/slog"
	"net/http"

	"github.com/FurkanKirci/BeautySalon/internal/auth"
	"github.com/FurkanKirci/BeautySalon/internal/booking"
	"github.com/FurkanKirci/BeautySalon/internal/cache"
	"github.com/FurkanKirci/BeautySalon/internal/config"
	"github.com/FurkanKirci/BeautySalon/internal/db"
	"github.com/FurkanKirci/BeautySalon/internal/media"
	"github.com/FurkanKirci/BeautySalon/internal/middleware"
	"github.com/FurkanKirci/BeautySalon/internal/validation"
)

type Server struct {
	Cfg  *config.Config
	Cols *db.Collections
	Val  *validation.Validator
	Log  *slog.Logger
	JWT  *auth.Manager

	Bookings *booking.Service
	Cache    cache.Cache

	ServicePhotos *media.Store
	CompanyIcons  *media.Store
	GalleryImages *media.Store
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	log := s.Log
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
