package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJobBusReportsStartAndResult(t *testing.T) {
	bus := newJobBus()
	start, run := bus.commands(jobKindSave, func(ctx context.Context) (tea.Msg, error) {
		return saveResultMsg{}, nil
	})
	signal, ok := start().(jobSignalMsg)
	if !ok || signal.Snapshot.Status != jobStatusRunning || signal.Snapshot.Kind != jobKindSave {
		t.Fatalf("unexpected start message %#v", signal)
	}
	envelope, ok := run().(jobResultEnvelope)
	if !ok {
		t.Fatal("expected a result envelope")
	}
	if envelope.Snapshot.ID != signal.Snapshot.ID || envelope.Snapshot.Status != jobStatusSucceeded {
		t.Fatalf("unexpected snapshot %#v", envelope.Snapshot)
	}
	if _, ok := envelope.Payload.(saveResultMsg); !ok {
		t.Fatalf("unexpected payload %T", envelope.Payload)
	}
}

func TestJobBusShutdownCancelsRunners(t *testing.T) {
	bus := newJobBus()
	_, run := bus.commands(jobKindDraft, func(ctx context.Context) (tea.Msg, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	bus.Shutdown()
	envelope := run().(jobResultEnvelope)
	if envelope.Snapshot.Status != jobStatusCanceled {
		t.Fatalf("expected canceled status, got %s", envelope.Snapshot.Status)
	}
	if envelope.Snapshot.Err == "" {
		t.Fatal("canceled job should carry the error")
	}
}

func TestJobBusMarksFailures(t *testing.T) {
	bus := newJobBus()
	_, run := bus.commands(jobKindLibrary, func(ctx context.Context) (tea.Msg, error) {
		return nil, errors.New("disk full")
	})
	envelope := run().(jobResultEnvelope)
	if envelope.Snapshot.Status != jobStatusFailed || envelope.Snapshot.Err != "disk full" {
		t.Fatalf("unexpected snapshot %#v", envelope.Snapshot)
	}
}
