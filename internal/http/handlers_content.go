package httpx

import (
	"errors"
	"net/http"

	"github.com/inkwell-ai/inkwell-api/internal/domain/model"
	"github.com/inkwell-ai/inkwell-api/internal/service"
)

// contentHandler exposes the blog analysis/generation endpoints backed by the
// async job core.
type contentHandler struct {
	Svc *service.JobService
}

// Analyze handles POST /api/blog/analyze. The work is dispatched in the
// background; the response carries only the job id to poll.
func (h *contentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	id, err := h.Svc.SubmitAnalysis(req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, model.SubmitResponse{JobID: id})
}

// Generate handles POST /api/blog/generate.
func (h *contentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	id, err := h.Svc.SubmitGeneration(req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, model.SubmitResponse{JobID: id})
}

// Status handles GET /api/blog/status/{jobID}. Evicted and never-known ids
// are indistinguishable; both yield a 404.
func (h *contentHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("jobID")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("job id is required"),
		})
		return
	}

	view, err := h.Svc.GetStatus(id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}
