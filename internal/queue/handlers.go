package queue

import (
	"github.com/hibiken/asynq"
)

// HandlersRegistry maps the meeting task types to their stage handlers. Thin
// wrapper around asynq's mux so cmd/worker registers handlers without
// depending on asynq's routing type directly.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{
		mux: asynq.NewServeMux(),
	}
}

// Register binds one task type, e.g. TypeMeetingSegment, to its handler.
func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
