package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/FurkanKirci/BeautySalon/internal/auth"
	"github.com/FurkanKirci/BeautySalon/internal/middleware"
	"github.com/FurkanKirci/BeautySalon/internal/models"
	"github.com/FurkanKirci/BeautySalon/internal/transport"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type SessionResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("auth register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("auth register: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}
	if s.JWT == nil {
		log.Warn("auth register: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("auth register: hash error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "password error", nil)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	if _, err := s.Cols.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn("auth register: email taken", slog.String("email", req.Email))
			transport.WriteError(w, http.StatusConflict, "email already registered", nil)
			return
		}
		log.Error("auth register: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	token, err := s.JWT.NewToken(user.ID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		log.Error("auth register: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	s.setSessionCookie(w, token)
	log.Info("auth register: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusCreated, SessionResponse{User: user, Token: token})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("auth login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("auth login: validation error")
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}
	if s.JWT == nil {
		log.Warn("auth login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
		return
	}

	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	var user models.User
	err := s.Cols.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		// Same message as a wrong password, no account enumeration.
		log.Warn("auth login: unknown email")
		transport.WriteError(w, http.StatusUnauthorized, "email or password incorrect", nil)
		return
	}
	if err != nil {
		log.Error("auth login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		log.Warn("auth login: wrong password", slog.String("user_id", user.ID))
		transport.WriteError(w, http.StatusUnauthorized, "email or password incorrect", nil)
		return
	}

	token, err := s.JWT.NewToken(user.ID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		log.Error("auth login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	s.setSessionCookie(w, token)
	log.Info("auth login: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusOK, SessionResponse{User: user, Token: token})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	s.clearSessionCookie(w)
	log.Info("auth logout: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CurrentUser restores the session from the cookie or bearer token and
// re-reads the user record, so revoked or edited accounts drop out even
// while their token is still within its expiry window.
func (s *Server) CurrentUser(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	token := middleware.TokenFromRequest(r)
	if token == "" {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if s.JWT == nil {
		transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
		return
	}

	claims, err := s.JWT.Parse(token)
	if err != nil {
		s.clearSessionCookie(w)
		log.Warn("auth me: invalid token")
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	user, err := s.userByID(r, claims.UserID)
	if err == mongo.ErrNoDocuments {
		s.clearSessionCookie(w)
		log.Warn("auth me: user gone", slog.String("user_id", claims.UserID))
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err != nil {
		log.Error("auth me: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// VerifyToken validates a client-held token and returns the matching
// user record. The client may have optimistically decoded the same
// token for display; this is the call that actually authenticates it.
func (s *Server) VerifyToken(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("auth verify: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		details := validationDetails(s.Val.ValidationErrors(err))
		transport.WriteError(w, http.StatusBadRequest, "validation error", details)
		return
	}
	if s.JWT == nil {
		transport.WriteError(w, http.StatusServiceUnavailable, "auth not configured", nil)
		return
	}

	claims, err := s.JWT.Parse(req.Token)
	if err != nil {
		log.Warn("auth verify: invalid token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
		return
	}

	user, err := s.userByID(r, claims.UserID)
	if err == mongo.ErrNoDocuments {
		log.Warn("auth verify: user gone", slog.String("user_id", claims.UserID))
		transport.WriteError(w, http.StatusUnauthorized, "invalid token", nil)
		return
	}
	if err != nil {
		log.Error("auth verify: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *Server) userByID(r *http.Request, id string) (models.User, error) {
	ctx, cancel := requestContext(r, 5*time.Second)
	defer cancel()

	var user models.User
	err := s.Cols.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, err
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.JWT.TTL.Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
	})
}
