package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/crestline/meetflow/internal/queue"
)

// QueueHandler enqueues stages as background tasks instead of running them in
// the request. The worker binary picks them up.
type QueueHandler struct {
	client *queue.Client
}

func NewQueueHandler(client *queue.Client) *QueueHandler {
	return &QueueHandler{client: client}
}

func (h *QueueHandler) ParseAsync(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, h.client.EnqueueSegment)
}

func (h *QueueHandler) EmbedAsync(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, h.client.EnqueueEmbed)
}

func (h *QueueHandler) ExtractAsync(w http.ResponseWriter, r *http.Request) {
	h.enqueue(w, r, h.client.EnqueueExtract)
}

func (h *QueueHandler) enqueue(w http.ResponseWriter, r *http.Request, submit func(queue.StagePayload) error) {
	var req stageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if req.MetadataID == "" && req.FirefliesID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "metadataId or firefliesId required"})
		return
	}

	payload := queue.StagePayload{MeetingID: req.MetadataID, FirefliesID: req.FirefliesID}
	if err := submit(payload); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"queued":      true,
		"metadataId":  req.MetadataID,
		"firefliesId": req.FirefliesID,
	})
}
