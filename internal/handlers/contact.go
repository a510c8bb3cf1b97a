package handlers

import (
	"context"
	"errors"
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

type ContactRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type MessageStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied"`
}

type messageListQuery struct {
	Status string `validate:"omitempty,oneof=new read replied"`
}

func (s *Server) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("contact create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("contact create: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	msg := models.ContactMessage{
		ID:        primitive.NewObjectID().Hex(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    models.MessageStatusNew,
		CreatedAt: time.Now().In(s.Cfg.Timezone),
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	if _, err := s.Cols.ContactMessages.InsertOne(ctx, msg); err != nil {
		log.Error("contact create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("contact create: stored", slog.String("message_id", msg.ID))
	transport.WriteJSON(w, http.StatusCreated, msg)
}

func (s *Server) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	q := messageListQuery{Status: r.URL.Query().Get("status")}
	if err := s.Val.Struct(q); err != nil {
		log.Warn("admin messages list: invalid query")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "invalid query", details)
		return
	}

	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50)
	messages, err := s.listMessages(ctx, filter, opts)
	if err != nil {
		log.Error("admin messages list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin messages list: ok", slog.Int("count", len(messages)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (s *Server) AdminRecentMessages(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	limit, err := httpx.ParseLimit(r.URL.Query().Get("limit"), 5, 50)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid limit", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	messages, err := s.listMessages(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("admin messages recent: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin messages recent: ok", slog.Int("count", len(messages)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

var errMessageNotFound = errors.New("message not found")

// messageViews is the seam for the read-on-first-view transition.
type messageViews interface {
	MarkReadIfNew(ctx context.Context, id string) (models.ContactMessage, bool, error)
	GetMessage(ctx context.Context, id string) (models.ContactMessage, error)
}

type mongoMessageViews struct {
	col *mongo.Collection
}

func (m mongoMessageViews) MarkReadIfNew(ctx context.Context, id string) (models.ContactMessage, bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": models.MessageStatusRead}}

	var msg models.ContactMessage
	err := m.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.MessageStatusNew}, update, opts).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return models.ContactMessage{}, false, nil
	}
	if err != nil {
		return models.ContactMessage{}, false, err
	}
	return msg, true, nil
}

func (m mongoMessageViews) GetMessage(ctx context.Context, id string) (models.ContactMessage, error) {
	var msg models.ContactMessage
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err == mongo.ErrNoDocuments {
		return models.ContactMessage{}, errMessageNotFound
	}
	return msg, err
}

// viewMessage flips a "new" status to "read" exactly once: the first
// view wins the conditional update, later views read the row untouched.
func viewMessage(ctx context.Context, store messageViews, id string) (models.ContactMessage, error) {
	msg, updated, err := store.MarkReadIfNew(ctx, id)
	if err != nil {
		return models.ContactMessage{}, err
	}
	if updated {
		return msg, nil
	}
	// Either already read/replied or genuinely missing.
	return store.GetMessage(ctx, id)
}

func (s *Server) AdminViewMessage(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	msg, err := viewMessage(ctx, mongoMessageViews{col: s.Cols.ContactMessages}, id)
	if err != nil {
		if errors.Is(err, errMessageNotFound) {
			log.Warn("admin messages view: not found", slog.String("message_id", id))
			transport.WriteError(w, http.StatusNotFound, "message not found", nil)
			return
		}
		log.Error("admin messages view: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin messages view: ok", slog.String("message_id", id))
	transport.WriteJSON(w, http.StatusOK, msg)
}

func (s *Server) AdminUpdateMessageStatus(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	id := chi.URLParam(r, "id")
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req MessageStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("admin messages status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin messages status: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	res, err := s.Cols.ContactMessages.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		log.Error("admin messages status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.MatchedCount == 0 {
		log.Warn("admin messages status: not found", slog.String("message_id", id))
		transport.WriteError(w, http.StatusNotFound, "message not found", nil)
		return
	}

	log.Info("admin messages status: ok", slog.String("message_id", id), slog.String("status", req.Status))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) listMessages(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ContactMessage, error) {
	cursor, err := s.Cols.ContactMessages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := make([]models.ContactMessage, 0)
	for cursor.Next(ctx) {
		var msg models.ContactMessage
		if err := cursor.Decode(&msg); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, cursor.Err()
}
