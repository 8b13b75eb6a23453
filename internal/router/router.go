package router

import (
	"net/http"

	"github.com/senyabanana/recruitment-service/internal/handlers"
)

func InitRoutes(applicationHandler *handlers.ApplicationHandler, proposalHandler *handlers.ProposalHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/applications/new", applicationHandler.CreateApplication)
	mux.HandleFunc("GET /api/applications/{applicationId}/status", applicationHandler.GetApplicationStatus)
	mux.HandleFunc("PUT /api/applications/{applicationId}/status", applicationHandler.AdvanceStatus)
	mux.HandleFunc("/api/applications/{applicationId}/terminate", applicationHandler.SetTerminalStatus)
	mux.HandleFunc("/api/applications/{applicationId}/timeline", applicationHandler.GetTimeline)
	mux.HandleFunc("PUT /api/applications/{applicationId}/feedback", applicationHandler.SubmitFeedback)
	mux.HandleFunc("GET /api/applications/{applicationId}/feedback", applicationHandler.GetFeedback)
	mux.HandleFunc("/api/applications/{applicationId}/proposals", proposalHandler.ListProposals)

	mux.HandleFunc("/api/proposals/new", proposalHandler.CreateProposal)
	mux.HandleFunc("GET /api/proposals/{proposalId}", proposalHandler.GetProposal)
	mux.HandleFunc("/api/proposals/{proposalId}/respond", proposalHandler.Respond)
	mux.HandleFunc("/api/proposals/{proposalId}/review", proposalHandler.Review)
	mux.HandleFunc("/api/proposals/{proposalId}/cancel", proposalHandler.Cancel)

	return mux
}
