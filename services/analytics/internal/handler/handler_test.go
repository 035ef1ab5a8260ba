package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/movie-platform/internal/platform/analytics"
)

type recordingSink struct {
	names []string
}

func (r *recordingSink) Record(_ context.Context, eventName string, _ time.Time) error {
	r.names = append(r.names, eventName)
	return nil
}

func msgFor(t *testing.T, subject string, ev analytics.Event) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &nats.Msg{Subject: subject, Data: data}
}

func TestDispatch_CountsEvent(t *testing.T) {
	rs := &recordingSink{}
	d := New(rs, zap.NewNop())

	d.Dispatch(context.Background(), msgFor(t, analytics.SubjectAccountRegistered, analytics.Event{
		EventName:  "account_registered",
		Email:      "ada@example.com",
		OccurredAt: time.Now().UTC(),
	}))

	if len(rs.names) != 1 || rs.names[0] != "account_registered" {
		t.Fatalf("unexpected recorded events: %v", rs.names)
	}
}

func TestDispatch_FallsBackToSubjectTail(t *testing.T) {
	rs := &recordingSink{}
	d := New(rs, zap.NewNop())

	d.Dispatch(context.Background(), msgFor(t, analytics.SubjectCommentAdded, analytics.Event{}))

	if len(rs.names) != 1 || rs.names[0] != "comment_added" {
		t.Fatalf("unexpected recorded events: %v", rs.names)
	}
}

func TestDispatch_IgnoresForeignSubject(t *testing.T) {
	rs := &recordingSink{}
	d := New(rs, zap.NewNop())

	d.Dispatch(context.Background(), &nats.Msg{Subject: "billing.payment.completed", Data: []byte(`{}`)})

	if len(rs.names) != 0 {
		t.Fatalf("expected no recorded events, got %v", rs.names)
	}
}

func TestDispatch_MalformedPayload(t *testing.T) {
	rs := &recordingSink{}
	d := New(rs, zap.NewNop())

	d.Dispatch(context.Background(), &nats.Msg{Subject: analytics.SubjectAccountDeleted, Data: []byte(`{not json`)})

	if len(rs.names) != 0 {
		t.Fatalf("expected no recorded events, got %v", rs.names)
	}
}
