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

// ProposalHandler - структура для обработки HTTP-запросов по предложениям.
type ProposalHandler struct {
	Service *services.NegotiationService
	Logger  *zap.SugaredLogger
	Timeout time.Duration
}

// NewProposalHandler создает новый экземпляр ProposalHandler.
func NewProposalHandler(service *services.NegotiationService, logger *zap.SugaredLogger, timeout time.Duration) *ProposalHandler {
	return &ProposalHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateProposal обрабатывает запросы для создания предложения.
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	actorID := r.URL.Query().Get("actorId")

	var proposalReq models.ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&proposalReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.Service.CreateProposal(ctx, proposalReq, actorID)
	if err != nil {
		h.writeError(w, err, "failed to create proposal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(proposal); err != nil {
		h.Logger.Error(err)
	}
}

// Respond обрабатывает запросы с ответом кандидата на предложение.
func (h *ProposalHandler) Respond(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalID := r.PathValue("proposalId")
	counterpartID := r.URL.Query().Get("counterpartId")

	var respondReq models.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&respondReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.Service.Respond(ctx, proposalID, counterpartID, respondReq)
	if err != nil {
		h.writeError(w, err, "failed to respond to proposal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(proposal); err != nil {
		h.Logger.Error(err)
	}
}

// Review обрабатывает запросы с решением владельца по встречному предложению.
func (h *ProposalHandler) Review(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalID := r.PathValue("proposalId")
	actorID := r.URL.Query().Get("actorId")

	var reviewReq models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&reviewReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.Service.Review(ctx, proposalID, actorID, reviewReq)
	if err != nil {
		h.writeError(w, err, "failed to review proposal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(proposal); err != nil {
		h.Logger.Error(err)
	}
}

// Cancel обрабатывает запросы на отмену предложения.
func (h *ProposalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalID := r.PathValue("proposalId")
	actorID := r.URL.Query().Get("actorId")

	proposal, err := h.Service.CancelProposal(ctx, proposalID, actorID)
	if err != nil {
		h.writeError(w, err, "failed to cancel proposal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(proposal); err != nil {
		h.Logger.Error(err)
	}
}

// GetProposal обрабатывает запросы для получения предложения.
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	proposalID := r.PathValue("proposalId")

	proposal, err := h.Service.GetProposal(ctx, proposalID)
	if err != nil {
		h.writeError(w, err, "failed to retrieve proposal")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(proposal); err != nil {
		h.Logger.Error(err)
	}
}

// ListProposals обрабатывает запросы для получения списка предложений по отклику.
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	applicationID := r.PathValue("applicationId")
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	proposals, err := h.Service.ListProposals(ctx, applicationID, limitStr, offsetStr)
	if err != nil {
		h.writeError(w, err, "failed to retrieve proposals")
		return
	}

	if len(proposals) == 0 {
		utils.SendErrorResponse(w, http.StatusNotFound, "no proposals found for this application")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(proposals); err != nil {
		h.Logger.Error(err)
	}
}

// writeError переводит типизированную ошибку сервиса в HTTP-ответ.
// Нарушение инварианта наружу уходит без подробностей.
func (h *ProposalHandler) writeError(w http.ResponseWriter, err error, fallback string) {
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
