package daemon

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/google/go-cmp/cmp"
)

func TestCancelContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := CancelContext(parent)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled with its parent")
	}
}

func TestCancelContextOnSignal(t *testing.T) {
	ctx := CancelContext(context.Background())

	// Give the goroutine time to register for the signal.
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled by SIGTERM")
	}
}

func TestPrintSettings(t *testing.T) {
	h := memory.New()
	logger := &log.Logger{Handler: h, Level: log.DebugLevel}

	PrintSettings(logger, map[string]interface{}{
		"tc":               "tc",
		"graphdb_password": "hunter2",
		"apache_port":      80,
	}, "graphdb_password")

	var got []string
	for _, e := range h.Entries {
		got = append(got, e.Message)
	}
	want := []string{"apache_port 80", "graphdb_password ****", "tc tc"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}
