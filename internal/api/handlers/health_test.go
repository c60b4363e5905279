package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crestline/meetflow/internal/pipeline"
)

func TestHealth(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()

	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
	if body["worker"] != WorkerName {
		t.Errorf("worker = %q, want %q", body["worker"], WorkerName)
	}
}

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing id", pipeline.ErrMissingID, http.StatusBadRequest},
		{"wrapped missing id", errors.Join(errors.New("ctx"), pipeline.ErrMissingID), http.StatusBadRequest},
		{"not found", pipeline.ErrNotFound, http.StatusNotFound},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveStatus(tt.err); got != tt.want {
				t.Errorf("resolveStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, &pipeline.SegmentResult{
		MeetingID:    "m-1",
		FirefliesID:  "ff-1",
		SegmentCount: 4,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if body["metadataId"] != "m-1" || body["firefliesId"] != "ff-1" {
		t.Errorf("ids = %v / %v", body["metadataId"], body["firefliesId"])
	}
	if body["segmentCount"] != float64(4) {
		t.Errorf("segmentCount = %v", body["segmentCount"])
	}
}
