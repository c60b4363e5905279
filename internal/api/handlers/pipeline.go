package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crestline/meetflow/internal/models"
	"github.com/crestline/meetflow/internal/pipeline"
)

type PipelineHandler struct {
	svc *pipeline.Service
}

func NewPipelineHandler(svc *pipeline.Service) *PipelineHandler {
	return &PipelineHandler{svc: svc}
}

// stageRequest is the uniform body of every single-meeting stage trigger. At
// least one id is required.
type stageRequest struct {
	MetadataID  string `json:"metadataId"`
	FirefliesID string `json:"firefliesId"`
}

func (h *PipelineHandler) Parse(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, func(m *models.Meeting) (any, error) {
		return h.svc.Segment(r.Context(), m)
	})
}

func (h *PipelineHandler) Embed(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, func(m *models.Meeting) (any, error) {
		return h.svc.Embed(r.Context(), m)
	})
}

func (h *PipelineHandler) Extract(w http.ResponseWriter, r *http.Request) {
	h.runStage(w, r, func(m *models.Meeting) (any, error) {
		return h.svc.Extract(r.Context(), m)
	})
}

func (h *PipelineHandler) runStage(w http.ResponseWriter, r *http.Request, run func(*models.Meeting) (any, error)) {
	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	meeting, err := h.svc.Resolve(r.Context(), req.MetadataID, req.FirefliesID)
	if err != nil {
		writeJSON(w, resolveStatus(err), map[string]string{"error": err.Error()})
		return
	}

	result, err := run(meeting)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeSuccess(w, result)
}

func (h *PipelineHandler) ParsePending(w http.ResponseWriter, r *http.Request) {
	h.runPending(w, r, pipeline.StageNameParse)
}

func (h *PipelineHandler) EmbedPending(w http.ResponseWriter, r *http.Request) {
	h.runPending(w, r, pipeline.StageNameEmbed)
}

func (h *PipelineHandler) ExtractPending(w http.ResponseWriter, r *http.Request) {
	h.runPending(w, r, pipeline.StageNameExtract)
}

func (h *PipelineHandler) runPending(w http.ResponseWriter, r *http.Request, stage string) {
	result, err := h.svc.ProcessPending(r.Context(), stage)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func resolveStatus(err error) int {
	if errors.Is(err, pipeline.ErrMissingID) {
		return http.StatusBadRequest
	}
	if errors.Is(err, pipeline.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeSuccess merges {"success": true} into a stage result payload.
func writeSuccess(w http.ResponseWriter, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	body["success"] = true

	writeJSON(w, http.StatusOK, body)
}
