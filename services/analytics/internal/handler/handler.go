// Package handler routes raw NATS messages to the event sink.
package handler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/movie-platform/internal/platform/analytics"
	"github.com/example/movie-platform/services/analytics/internal/sink"
)

// Dispatcher counts incoming analytics events into the sink.
type Dispatcher struct {
	sink sink.EventSink
	log  *zap.Logger
}

// New creates a Dispatcher.
func New(s sink.EventSink, log *zap.Logger) *Dispatcher {
	return &Dispatcher{sink: s, log: log}
}

// Dispatch processes msg. Unknown subjects and malformed payloads are logged
// and skipped; the caller still Acks to avoid replay.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *nats.Msg) {
	if !strings.HasPrefix(msg.Subject, "analytics.") {
		d.log.Debug("analytics: unhandled subject", zap.String("subject", msg.Subject))
		return
	}

	var ev analytics.Event
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		d.log.Error("analytics: unmarshal message",
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return
	}

	name := ev.EventName
	if name == "" {
		// Fall back to the subject tail for producers that omit the name.
		name = msg.Subject[strings.LastIndexByte(msg.Subject, '.')+1:]
	}

	if err := d.sink.Record(ctx, name, ev.OccurredAt); err != nil {
		d.log.Warn("analytics: record event",
			zap.String("event", name),
			zap.Error(err),
		)
	}
}
