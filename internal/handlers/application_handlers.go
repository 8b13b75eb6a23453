package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/senyabanana/recruitment-service/internal/models"
	"github.com/senyabanana/recruitment-service/internal/services"
	"github.com/senyabanana/recruitment-service/internal/utils"

	"go.uber.org/zap"
)

// ApplicationHandler - структура для обработки HTTP-запросов по откликам.
type ApplicationHandler struct {
	Service *services.ApplicationService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewApplicationHandler создает новый экземпляр ApplicationHandler.
func NewApplicationHandler(service *services.ApplicationService, logger *zap.SugaredLogger, timeout time.Duration) *ApplicationHandler {
	return &ApplicationHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateApplication обрабатывает запросы для создания отклика.
func (h *ApplicationHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var appReq models.ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&appReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	app, err := h.Service.CreateApplication(ctx, appReq)
	if err != nil {
		h.writeError(w, err, "failed to create application")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(app); err != nil {
		h.Logger.Error(err)
	}
}

// GetApplicationStatus обрабатывает запросы для получения статуса отклика.
func (h *ApplicationHandler) GetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")

	status, err := h.Service.GetApplicationStatus(ctx, applicationID)
	if err != nil {
		h.writeError(w, err, "failed to retrieve application status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(status); err != nil {
		h.Logger.Error(err)
	}
}

// AdvanceStatus обрабатывает запросы явного перехода статуса отклика.
func (h *ApplicationHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")
	actorID := r.URL.Query().Get("actorId")
	status := r.URL.Query().Get("status")
	notes := r.URL.Query().Get("notes")

	app, err := h.Service.AdvanceStatus(ctx, applicationID, actorID, status, notes)
	if err != nil {
		h.writeError(w, err, "failed to update application status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(app); err != nil {
		h.Logger.Error(err)
	}
}

// SetTerminalStatus обрабатывает запросы на отклонение или отзыв отклика.
func (h *ApplicationHandler) SetTerminalStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")
	actorID := r.URL.Query().Get("actorId")
	status := r.URL.Query().Get("status")
	notes := r.URL.Query().Get("notes")

	app, err := h.Service.SetTerminalStatus(ctx, applicationID, actorID, status, notes)
	if err != nil {
		h.writeError(w, err, "failed to terminate application")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(app); err != nil {
		h.Logger.Error(err)
	}
}

// GetTimeline обрабатывает запросы для получения журнала истории отклика.
func (h *ApplicationHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	entries, err := h.Service.GetTimeline(ctx, applicationID, limitStr, offsetStr)
	if err != nil {
		h.writeError(w, err, "failed to retrieve timeline")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(entries); err != nil {
		h.Logger.Error(err)
	}
}

// SubmitFeedback обрабатывает запросы на отправку отзыва по отклику.
func (h *ApplicationHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")
	actorID := r.URL.Query().Get("actorId")

	var feedbackReq models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&feedbackReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := h.Service.SubmitFeedback(ctx, applicationID, actorID, feedbackReq)
	if err != nil {
		h.writeError(w, err, "failed to submit feedback")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(feedback); err != nil {
		h.Logger.Error(err)
	}
}

// GetFeedback обрабатывает запросы на просмотр отзывов по отклику.
func (h *ApplicationHandler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	feedbacks, err := h.Service.GetFeedback(ctx, applicationID, limitStr, offsetStr)
	if err != nil {
		h.writeError(w, err, "failed to retrieve feedback")
		return
	}

	if len(feedbacks) == 0 {
		utils.SendErrorResponse(w, http.StatusNotFound, "no feedback found for this application")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(feedbacks); err != nil {
		h.Logger.Error(err)
	}
}

func (h *ApplicationHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		h.Logger.Error(err)
		if errorResponse.Kind == models.KindInvariant {
			utils.SendErrorResponse(w, http.StatusInternalServerError, "internal server error")
			return
		}
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	h.Logger.Error(err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
