package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/FurkanKirci/BeautySalon/internal/models"
	"github.com/FurkanKirci/BeautySalon/internal/transport"
)

type DashboardStats struct {
	TotalAppointments     int64 `json:"totalAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
	AppointmentsThisMonth int64 `json:"appointmentsThisMonth"`
	TotalServices         int64 `json:"totalServices"`
	TotalSpecialists      int64 `json:"totalSpecialists"`
	TotalGallery          int64 `json:"totalGallery"`
	TotalMessages         int64 `json:"totalMessages"`
	NewMessages           int64 `json:"newMessages"`
	MessagesThisWeek      int64 `json:"messagesThisWeek"`
}

func (s *Server) AdminDashboardStats(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	now := time.Now().In(s.Cfg.Timezone)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.Cfg.Timezone)
	weekStart := now.AddDate(0, 0, -7)

	var stats DashboardStats
	var err error

	if stats.TotalAppointments, err = s.Cols.Appointments.CountDocuments(ctx, bson.D{}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.PendingAppointments, err = s.Cols.Appointments.CountDocuments(ctx,
		bson.M{"status": models.AppointmentStatusPending}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.AppointmentsThisMonth, err = s.Cols.Appointments.CountDocuments(ctx,
		bson.M{"createdAt": bson.M{"$gte": monthStart}}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.TotalServices, err = s.Cols.Services.CountDocuments(ctx, bson.D{}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.TotalSpecialists, err = s.Cols.Specialists.CountDocuments(ctx,
		bson.M{"isActive": true}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.TotalGallery, err = s.Cols.Gallery.CountDocuments(ctx, bson.D{}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.TotalMessages, err = s.Cols.ContactMessages.CountDocuments(ctx, bson.D{}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.NewMessages, err = s.Cols.ContactMessages.CountDocuments(ctx,
		bson.M{"status": models.MessageStatusNew}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if stats.MessagesThisWeek, err = s.Cols.ContactMessages.CountDocuments(ctx,
		bson.M{"createdAt": bson.M{"$gte": weekStart}}); err != nil {
		log.Error("dashboard stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("dashboard stats: ok")
	transport.WriteJSON(w, http.StatusOK, stats)
}
