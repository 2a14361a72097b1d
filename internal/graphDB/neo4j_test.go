package graphDB

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/David-Antunes/netsim/internal/topology"
	"github.com/google/go-cmp/cmp"
)

type statement struct {
	query string
	args  map[string]any
}

type recordingQuerier struct {
	statements []statement
	failOn     string
}

func (r *recordingQuerier) Query(_ context.Context, query string, args map[string]any) error {
	r.statements = append(r.statements, statement{query, args})
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return errors.New("mocked error")
	}
	return nil
}

func TestPublish(t *testing.T) {
	q := &recordingQuerier{}
	m := NewMirror(q)
	err := m.Publish(context.Background(),
		[]string{"10.0.0.1"},
		[]topology.Bottleneck{{From: "10.0.0.1", Class: 1, To: "10.0.1.1"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(q.statements) != 3 {
		t.Fatalf("expected clear, host and link statements, got %d", len(q.statements))
	}
	if !strings.Contains(q.statements[0].query, "DETACH DELETE") {
		t.Fatalf("expected the graph to be cleared first, got %q", q.statements[0].query)
	}
	want := map[string]any{
		"from":      "10.0.0.1",
		"to":        "10.0.1.1",
		"class":     1,
		"bandwidth": "1000mbit",
		"latency":   "0ms",
	}
	if diff := cmp.Diff(want, q.statements[2].args); diff != "" {
		t.Fatal(diff)
	}
}

func TestPublishStopsOnError(t *testing.T) {
	q := &recordingQuerier{failOn: "SET n.server"}
	m := NewMirror(q)
	err := m.Publish(context.Background(), []string{"10.0.0.1", "10.0.0.2"}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(q.statements) != 2 {
		t.Fatalf("expected publishing to stop at the failing host, got %d statements", len(q.statements))
	}
}

func TestUpdateLink(t *testing.T) {
	q := &recordingQuerier{}
	if err := NewMirror(q).UpdateLink(context.Background(), 2, "2mbit", "2s"); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"class":     2,
		"bandwidth": "2mbit",
		"latency":   "2s",
		"kbps":      "2000",
		"ms":        "2000",
	}
	if diff := cmp.Diff(want, q.statements[0].args); diff != "" {
		t.Fatal(diff)
	}
}
