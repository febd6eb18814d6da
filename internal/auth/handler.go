package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"learnhub/internal/models"
	"learnhub/pkg/logger"
)

// loginHook lets authentication feed the progress engine (daily-login XP)
// without auth depending on its internals. Safe to call on every login.
type loginHook interface {
	RecordDailyLogin(ctx context.Context, userID uint) (int, error)
}

type Handler struct {
	service *Service
	hook    loginHook
	log     *logger.Logger
}

func NewHandler(service *Service, hook loginHook, log *logger.Logger) *Handler {
	return &Handler{service: service, hook: hook, log: log}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	token, user, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Daily-login XP is best effort; a cache or storage hiccup must not
	// block authentication.
	xpGained := 0
	if h.hook != nil {
		if gained, err := h.hook.RecordDailyLogin(r.Context(), user.ID); err != nil {
			h.log.Warn("daily login grant failed", "user_id", user.ID, "error", err)
		} else {
			xpGained = gained
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":     token,
		"xp_gained": xpGained,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Timezone:    req.Timezone,
	}

	if err := h.service.Register(user); err != nil {
		http.Error(w, "Registration failed", http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	})
}
