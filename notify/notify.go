// Package notify carries user-facing notices (success, info, warning and
// error messages) from the cart and checkout to whoever is listening.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier delivers a notice. Delivery is best effort; implementations log
// their own failures instead of returning them.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(context.Context, Notice) {}

// Log writes notices to a slog logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ctx context.Context, n Notice) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch n.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	logger.Log(ctx, level, "notice", "level", string(n.Level), "message", n.Message)
}

// Multi fans a notice out to several notifiers in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Has reports whether a notice with the given level and message was recorded.
func (r *Recorder) Has(level Level, message string) bool {
	for _, n := range r.Notices() {
		if n.Level == level && n.Message == message {
			return true
		}
	}
	return false
}

// Count returns how many notices of the given level were recorded.
func (r *Recorder) Count(level Level) int {
	count := 0
	for _, n := range r.Notices() {
		if n.Level == level {
			count++
		}
	}
	return count
}

type recorderKey struct{}

// NewContext returns a context that carries rec, so that Contextual can
// collect the notices raised while serving one request.
func NewContext(ctx context.Context, rec *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

func FromContext(ctx context.Context) (*Recorder, bool) {
	rec, ok := ctx.Value(recorderKey{}).(*Recorder)
	return rec, ok && rec != nil
}

// Contextual forwards notices to the Recorder stored in the context, if any.
type Contextual struct{}

func (Contextual) Notify(ctx context.Context, n Notice) {
	if rec, ok := FromContext(ctx); ok {
		rec.Notify(ctx, n)
	}
}
