package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/FurkanKirci/BeautySalon/internal/booking"
	"github.com/FurkanKirci/BeautySalon/internal/httpx"
	"github.com/FurkanKirci/BeautySalon/internal/models"
	"github.com/FurkanKirci/BeautySalon/internal/schedule"
	"github.com/FurkanKirci/BeautySalon/internal/transport"
)

type CreateAppointmentRequest struct {
	ServiceID       string `json:"serviceId" validate:"required"`
	SpecialistID    string `json:"specialistId"`
	AppointmentDate string `json:"appointmentDate" validate:"required,date"`
	AppointmentTime string `json:"appointmentTime" validate:"required,slot"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Phone           string `json:"phone" validate:"required,phone"`
	Email           string `json:"email" validate:"required,email"`
	Notes           string `json:"notes"`
}

type AppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type appointmentListQuery struct {
	Date string `validate:"omitempty,date"`
}

// AppointmentView is an appointment joined with display data from its
// service and specialist. Missing references degrade to placeholders
// instead of failing the listing.
type AppointmentView struct {
	models.Appointment `bson:",inline"`
	ServiceName        string  `json:"service_name"`
	Duration           int     `json:"duration"`
	Price              float64 `json:"price"`
	SpecialistName     string  `json:"specialist_name"`
}

func (s *Server) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req CreateAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("appointments create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("appointments create: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	if err := s.Cols.Services.FindOne(ctx, bson.M{"_id": req.ServiceID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("appointments create: service not found", slog.String("service_id", req.ServiceID))
			transport.WriteError(w, http.StatusBadRequest, "service not found", nil)
			return
		}
		log.Error("appointments create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	appointment, err := s.Bookings.Book(ctx, booking.Request{
		ServiceID:       req.ServiceID,
		SpecialistID:    req.SpecialistID,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Email:           req.Email,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, booking.ErrSlotTaken) {
			log.Warn("appointments create: slot taken",
				slog.String("date", req.AppointmentDate),
				slog.String("time", req.AppointmentTime),
				slog.String("specialist_id", req.SpecialistID),
			)
			transport.WriteError(w, http.StatusConflict, "slot already booked", nil)
			return
		}
		log.Error("appointments create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if s.Cache != nil {
		_ = s.Cache.DeletePrefix(r.Context(), "slots:"+req.AppointmentDate+":")
	}

	log.Info("appointments create: booked",
		slog.String("appointment_id", appointment.ID),
		slog.String("service_id", appointment.ServiceID),
		slog.String("date", appointment.AppointmentDate),
		slog.String("time", appointment.AppointmentTime),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"appointment": appointment,
	})
}

func (s *Server) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	q := appointmentListQuery{Date: r.URL.Query().Get("date")}
	if q.Date == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing date", nil)
		return
	}
	if err := s.Val.Struct(q); err != nil {
		log.Warn("appointments slots: invalid date")
		transport.WriteError(w, http.StatusBadRequest, "invalid date", nil)
		return
	}
	specialistID := r.URL.Query().Get("specialistId")

	cacheKey := "slots:" + q.Date + ":" + specialistID
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("appointments slots: cache hit", slog.String("date", q.Date))
			writeCachedJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	cursor, err := s.Cols.Appointments.Find(ctx, bson.M{
		"appointmentDate": q.Date,
		"specialistId":    specialistID,
		"status":          bson.M{"$ne": models.AppointmentStatusCancelled},
	})
	if err != nil {
		log.Error("appointments slots: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	booked := make(map[string]bool)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			continue
		}
		booked[appt.AppointmentTime] = true
	}
	if err := cursor.Err(); err != nil {
		log.Error("appointments slots: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{
		"date":         q.Date,
		"specialistId": specialistID,
		"slots":        schedule.FilterBooked(booked),
	}

	if payload, err := encodeJSON(response); err == nil && s.Cache != nil {
		_ = s.Cache.Set(r.Context(), cacheKey, payload, time.Duration(s.Cfg.CacheTTLSeconds)*time.Second)
	}

	log.Info("appointments slots: ok", slog.String("date", q.Date), slog.String("specialist_id", specialistID))
	transport.WriteJSON(w, http.StatusOK, response)
}

func (s *Server) AdminListAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	q := appointmentListQuery{Date: r.URL.Query().Get("date")}
	if err := s.Val.Struct(q); err != nil {
		log.Warn("admin appointments list: invalid query")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid query", details)
		return
	}

	filter := bson.M{}
	if q.Date != "" {
		filter["appointmentDate"] = q.Date
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "appointmentDate", Value: -1}, {Key: "appointmentTime", Value: -1}}).
		SetLimit(50)
	views, err := s.appointmentViews(ctx, filter, opts)
	if err != nil {
		log.Error("admin appointments list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin appointments list: ok", slog.Int("count", len(views)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointments": views})
}

func (s *Server) AdminRecentAppointments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	limit, err := httpx.ParseLimit(r.URL.Query().Get("limit"), 5, 50)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid limit", nil)
		return
	}

	ctx, cancel := requestContext(r, 8*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	views, err := s.appointmentViews(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("admin appointments recent: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin appointments recent: ok", slog.Int("count", len(views)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"appointments": views})
}

func (s *Server) AdminUpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AppointmentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("admin appointments status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin appointments status: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	// Status writes are unconditional; there is no state machine. The
	// active flag follows the status so the conflict index stays honest.
	update := bson.M{
		"$set": bson.M{
			"status":    req.Status,
			"active":    req.Status != models.AppointmentStatusCancelled,
			"updatedAt": time.Now().In(s.Cfg.Timezone),
		},
	}
	res, err := s.Cols.Appointments.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Un-cancelling collides with a booking that took the slot in
			// the meantime.
			log.Warn("admin appointments status: slot reclaimed", slog.String("appointment_id", id))
			transport.WriteError(w, http.StatusConflict, "slot already booked", nil)
			return
		}
		log.Error("admin appointments status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.MatchedCount == 0 {
		log.Warn("admin appointments status: not found", slog.String("appointment_id", id))
		transport.WriteError(w, http.StatusNotFound, "appointment not found", nil)
		return
	}

	var doc models.Appointment
	if err := s.Cols.Appointments.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		log.Error("admin appointments status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if s.Cache != nil {
		_ = s.Cache.DeletePrefix(r.Context(), "slots:"+doc.AppointmentDate+":")
	}

	log.Info("admin appointments status: ok", slog.String("appointment_id", id), slog.String("status", req.Status))
	transport.WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) appointmentViews(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]AppointmentView, error) {
	cursor, err := s.Cols.Appointments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := make([]models.Appointment, 0)
	serviceIDs := make([]string, 0)
	specialistIDs := make([]string, 0)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
		if appt.ServiceID != "" {
			serviceIDs = append(serviceIDs, appt.ServiceID)
		}
		if appt.SpecialistID != "" {
			specialistIDs = append(specialistIDs, appt.SpecialistID)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	services, err := s.servicesByID(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}
	specialistNames, err := s.specialistNamesByID(ctx, specialistIDs)
	if err != nil {
		return nil, err
	}

	views := make([]AppointmentView, 0, len(appointments))
	for _, appt := range appointments {
		view := AppointmentView{
			Appointment:    appt,
			ServiceName:    "Unknown Service",
			SpecialistName: "Unknown Specialist",
		}
		if svc, ok := services[appt.ServiceID]; ok {
			view.ServiceName = svc.Name
			view.Duration = svc.Duration
			view.Price = svc.Price
		}
		if name, ok := specialistNames[appt.SpecialistID]; ok {
			view.SpecialistName = name
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Server) servicesByID(ctx context.Context, ids []string) (map[string]models.Service, error) {
	result := make(map[string]models.Service)
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := s.Cols.Services.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var svc models.Service
		if err := cursor.Decode(&svc); err != nil {
			return nil, err
		}
		result[svc.ID] = svc
	}
	return result, cursor.Err()
}

func (s *Server) specialistNamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	result := make(map[string]string)
	if len(ids) == 0 {
		return result, nil
	}
	cursor, err := s.Cols.Specialists.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc struct {
			ID   string `bson:"_id"`
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result[doc.ID] = doc.Name
	}
	return result, cursor.Err()
}
