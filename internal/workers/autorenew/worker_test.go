package autorenew

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeRenewer struct {
	renewed map[string]bool
	failing map[string]bool
	calls   []string
}

func (f *fakeRenewer) RenewIfExpiring(_ context.Context, number string) (bool, error) {
	f.calls = append(f.calls, number)
	if f.failing[number] {
		return false, errors.New("upstream error")
	}
	return f.renewed[number], nil
}

func TestRunSweepsWholeWatchlist(t *testing.T) {
	renewer := &fakeRenewer{
		renewed: map[string]bool{"0521111111": true},
		failing: map[string]bool{"0522222222": true},
	}
	watchlist := []string{"0521111111", "0522222222", "0523333333"}

	w := NewWorker(renewer, watchlist, "0 9 * * *",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.run(context.Background())

	if len(renewer.calls) != len(watchlist) {
		t.Fatalf("checked %d numbers, want %d; a failure must not stop the sweep",
			len(renewer.calls), len(watchlist))
	}
	for i, number := range watchlist {
		if renewer.calls[i] != number {
			t.Errorf("call %d = %s, want %s", i, renewer.calls[i], number)
		}
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewWorker(&fakeRenewer{}, nil, "not a cron spec",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := w.Start(); err == nil {
		t.Fatal("expected error for an invalid schedule")
	}
}
