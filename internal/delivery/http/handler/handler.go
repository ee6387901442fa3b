package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/titanous/json5"
	"github.com/user/feed-harvester/internal/delivery/http/request"
	"github.com/user/feed-harvester/internal/delivery/http/response"
	"github.com/user/feed-harvester/internal/export"
	"github.com/user/feed-harvester/internal/insomnia"
	"github.com/user/feed-harvester/internal/usecase"
)

const maxRoutesBody = 1 << 20

type Handler struct {
	jobManager usecase.JobManager
	baseURL    string
}

// NewHandler creates the API handler. baseURL is the default base of exported
// route requests.
func NewHandler(jobManager usecase.JobManager, baseURL string) *Handler {
	return &Handler{
		jobManager: jobManager,
		baseURL:    baseURL,
	}
}

func (h *Handler) HandleSubmitHarvest(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitHarvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := h.jobManager.Submit(r.Context(), req.GroupURL, req.Scrolls)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidGroupURL) || errors.Is(err, usecase.ErrInvalidScrolls) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to submit harvest", "url", req.GroupURL, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.SubmitHarvestResponse{
		Status:  "success",
		Message: "Group submitted for harvesting",
		JobID:   job.ID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetHarvest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := h.jobManager.GetStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrJobNotFound) {
			h.writeJSONError(w, "Harvest job not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get harvest status", "job_id", id, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.NewHarvestStatus(job))
}

func (h *Handler) HandleGetRecordsCSV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.jobManager.Records(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrJobNotFound):
			h.writeJSONError(w, "Harvest job not found", http.StatusNotFound)
		case errors.Is(err, usecase.ErrJobNotFinished):
			h.writeJSONError(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("Failed to load harvest records", "job_id", id, "error", err)
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.csv"`)
	if err := export.WriteCSV(w, records); err != nil {
		slog.Error("Failed to write CSV response", "job_id", id, "error", err)
	}
}

func (h *Handler) HandleExportInsomnia(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRoutesBody))
	if err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var req request.ExportRoutesRequest
	if len(body) > 0 {
		if err := json5.Unmarshal(body, &req); err != nil {
			h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	routes := req.Routes
	if routes == nil {
		routes = insomnia.DefaultRoutes()
	} else if len(routes) == 0 {
		h.writeJSONError(w, insomnia.ErrNoRoutes.Error(), http.StatusBadRequest)
		return
	}

	opts := []insomnia.Option{insomnia.WithBaseURL(h.baseURL)}
	if req.BaseURL != "" {
		opts = append(opts, insomnia.WithBaseURL(req.BaseURL))
	}
	if req.WorkspaceName != "" {
		opts = append(opts, insomnia.WithWorkspaceName(req.WorkspaceName))
	}

	doc, err := insomnia.NewBuilder(opts...).Build(routes)
	if err != nil {
		slog.Error("Failed to build export", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+insomnia.DefaultOutputFile+`"`)
	if err := insomnia.Encode(w, doc); err != nil {
		slog.Error("Failed to write export response", "error", err)
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
