package exam

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/examforge/examforge/internal/auth"
	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/question"
	"github.com/examforge/examforge/internal/selector"
)

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) AssignTest(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto AssignTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	test, err := h.service.AssignTest(r.Context(), dto)
	if err != nil {
		switch {
		case errors.Is(err, selector.ErrInvalidConfig):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, question.ErrPoolNotFound):
			http.Error(w, "question pool not found", http.StatusNotFound)
		case errors.Is(err, ErrEmptySelection):
			http.Error(w, "no questions available", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to assign test")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusCreated, test)
}

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	studentID, ok := studentIDFromContext(w, r)
	if !ok {
		return
	}
	testID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	view, err := h.service.GetTestForStudent(r.Context(), testID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTestNotFound):
			http.Error(w, "test not found", http.StatusNotFound)
		case errors.Is(err, ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to load test")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) ListMyTests(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	studentID, ok := studentIDFromContext(w, r)
	if !ok {
		return
	}

	tests, err := h.service.ListTests(r.Context(), studentID)
	if err != nil {
		log.WithError(err).Error("Failed to list tests")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, tests)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	studentID, ok := studentIDFromContext(w, r)
	if !ok {
		return
	}
	testID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	submission, err := h.service.GetSubmission(r.Context(), testID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTestNotFound):
			http.Error(w, "test not found", http.StatusNotFound)
		case errors.Is(err, ErrSubmissionNotFound):
			http.Error(w, "test has not been submitted", http.StatusNotFound)
		case errors.Is(err, ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			log.WithError(err).Error("Failed to load submission")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, submission)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	studentID, ok := studentIDFromContext(w, r)
	if !ok {
		return
	}
	testID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var dto SubmitTestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.GradeSubmission(r.Context(), testID, studentID, dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrTestNotFound):
			http.Error(w, "test not found", http.StatusNotFound)
		case errors.Is(err, ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		case errors.Is(err, ErrAlreadyGraded):
			http.Error(w, "test already graded", http.StatusConflict)
		default:
			log.WithError(err).Error("Failed to grade submission")
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto ExecuteCodeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.ExecuteCode(r.Context(), dto)
	if err != nil {
		log.WithError(err).Error("Failed to execute code")
		http.Error(w, "execution unavailable", http.StatusServiceUnavailable)
		return
	}

	config.JSON(w, http.StatusOK, result)
}

func studentIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
