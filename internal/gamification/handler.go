package gamification

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"learnhub/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type statsResponse struct {
	TotalXP       int                   `json:"total_xp"`
	CurrentLevel  int                   `json:"current_level"`
	XPIntoLevel   int                   `json:"xp_into_level"`
	XPToNextLevel int                   `json:"xp_to_next_level"`
	CurrentStreak int                   `json:"current_streak"`
	LongestStreak int                   `json:"longest_streak"`
	Badges        []models.AwardedBadge `json:"badges"`
}

func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stats, userBadges, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	resp := statsResponse{
		TotalXP:       stats.TotalXP,
		CurrentLevel:  stats.CurrentLevel,
		XPIntoLevel:   XPIntoLevel(stats.TotalXP),
		XPToNextLevel: XPToNextLevel(stats.TotalXP),
		CurrentStreak: stats.CurrentStreak,
		LongestStreak: stats.LongestStreak,
		Badges:        make([]models.AwardedBadge, 0, len(userBadges)),
	}
	for _, ub := range userBadges {
		resp.Badges = append(resp.Badges, models.AwardedBadge{
			Code:     ub.Badge.Code,
			Name:     ub.Badge.Name,
			RewardXP: ub.Badge.RewardXP,
		})
	}

	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := int64(25)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(entries)
}

type adjustXPRequest struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
}

func (h *Handler) AdjustXP(w http.ResponseWriter, r *http.Request) {
	adminID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	targetID, err := strconv.ParseUint(vars["userID"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req adjustXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	stats, err := h.service.AdjustXP(r.Context(), adminID, uint(targetID), req.Amount, req.Reason)
	if err != nil {
		if errors.Is(err, ErrReasonRequired) {
			http.Error(w, "Adjustment reason is required", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to adjust XP", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]int{
		"new_xp":    stats.TotalXP,
		"new_level": stats.CurrentLevel,
	})
}
