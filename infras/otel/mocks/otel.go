package mocks

import (
	"context"
	"hms/infras/otel"
	"sync"
)

// Recorder is an otel.Otel that keeps every span it opens, in order.
type Recorder struct {
	mu    sync.Mutex
	spans []*Span
}

// NewScope implements otel.Otel.
func (r *Recorder) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, otel.Scope) {
	span := &Span{Scope: scopeName, Name: spanName}

	r.mu.Lock()
	r.spans = append(r.spans, span)
	r.mu.Unlock()

	return ctx, span
}

// Shutdown implements otel.Otel.
func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

func (r *Recorder) Spans() []*Span {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Span(nil), r.spans...)
}

// Find returns the first span with the given name.
func (r *Recorder) Find(name string) (*Span, bool) {
	for _, span := range r.Spans() {
		if span.Name == name {
			return span, true
		}
	}

	return nil, false
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func NewOtel() otel.Otel {
	return NewRecorder()
}
