package history

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/auth"
	"github.com/examforge/examforge/internal/config"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Performance returns the calling learner's aggregates together with the
// adviser's current recommendation, for the dashboard collaborator.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		log.Warn("User not authenticated")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	studentID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	record, err := h.service.Load(r.Context(), studentID)
	if err != nil {
		log.WithError(err).Error("Failed to load question history")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	weak, err := h.service.WeakCategories(r.Context(), studentID)
	if err != nil {
		log.WithError(err).Error("Failed to compute weak categories")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	recommended, err := h.service.AdaptiveDifficulty(r.Context(), studentID)
	if err != nil {
		log.WithError(err).Error("Failed to compute recommended difficulty")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{
		"total_questions_attempted": record.TotalQuestionsAttempted,
		"correct_answers":           record.CorrectAnswers,
		"category_performance":      record.CategoryPerformance.Data(),
		"difficulty_performance":    record.DifficultyPerformance.Data(),
		"weak_categories":           weak,
		"recommended_difficulty":    recommended,
	})
}
