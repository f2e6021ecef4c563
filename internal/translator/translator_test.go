package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
)

type recordingClient struct {
	mu      sync.Mutex
	batches [][]string
	times   []time.Time
	fn      func(call int, texts []string) ([]string, error)
}

func (c *recordingClient) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	c.mu.Lock()
	call := len(c.batches)
	c.batches = append(c.batches, append([]string(nil), texts...))
	c.times = append(c.times, time.Now())
	c.mu.Unlock()
	if c.fn != nil {
		return c.fn(call, texts)
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = target + ":" + s
	}
	return out, nil
}

func texts(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("s%d", i)
	}
	return out
}

func TestTranslator_BatchesInOrder(t *testing.T) {
	client := &recordingClient{}
	tr, err := NewTranslator(client, 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	var progress []Progress
	got, err := tr.Translate(context.Background(), texts(5), "en", "fr", func(p Progress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.batches) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(client.batches))
	}
	if strings.Join(client.batches[2], ",") != "s4" {
		t.Fatalf("unexpected last batch: %v", client.batches[2])
	}
	for i, s := range got {
		if want := fmt.Sprintf("fr:s%d", i); s != want {
			t.Fatalf("index %d: expected %q, got %q", i, want, s)
		}
	}

	if len(progress) != 6 {
		t.Fatalf("expected start+complete per batch, got %d events", len(progress))
	}
	last := progress[len(progress)-1]
	if last.State != StateCompleted || last.BatchIndex != 2 || last.TotalBatches != 3 || last.Target != "fr" {
		t.Fatalf("unexpected final progress: %+v", last)
	}
}

func TestTranslator_EmptyInputMakesNoCalls(t *testing.T) {
	client := &recordingClient{}
	tr, _ := NewTranslator(client, 100, 0)
	got, err := tr.Translate(context.Background(), nil, "en", "fr", nil)
	if err != nil || len(got) != 0 || len(client.batches) != 0 {
		t.Fatalf("expected no calls, got %v, %v, %d calls", got, err, len(client.batches))
	}
}

func TestTranslator_CountMismatchIsValidationError(t *testing.T) {
	client := &recordingClient{fn: func(_ int, in []string) ([]string, error) {
		return in[:len(in)-1], nil
	}}
	tr, _ := NewTranslator(client, 3, 0)
	_, err := tr.Translate(context.Background(), texts(3), "en", "fr", nil)
	if !apperrors.Is(err, apperrors.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranslator_AbortsOnFirstErrorWithoutRetry(t *testing.T) {
	want := apperrors.RateLimit(errors.New("429"))
	client := &recordingClient{fn: func(call int, in []string) ([]string, error) {
		if call == 1 {
			return nil, want
		}
		return in, nil
	}}
	tr, _ := NewTranslator(client, 1, 0)
	_, err := tr.Translate(context.Background(), texts(4), "en", "fr", nil)
	if !errors.Is(err, want) {
		t.Fatalf("expected client error, got %v", err)
	}
	if len(client.batches) != 2 {
		t.Fatalf("expected abort after second call, got %d calls", len(client.batches))
	}
}

func TestTranslator_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &recordingClient{fn: func(call int, in []string) ([]string, error) {
		cancel()
		return nil, context.Canceled
	}}
	tr, _ := NewTranslator(client, 1, 0)

	var states []BatchState
	_, err := tr.Translate(ctx, texts(3), "en", "fr", func(p Progress) { states = append(states, p.State) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.batches) != 1 {
		t.Fatalf("expected no calls after cancel, got %d", len(client.batches))
	}
	if states[len(states)-1] != StateCanceled {
		t.Fatalf("expected canceled progress, got %v", states)
	}
}

func TestTranslator_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &recordingClient{}
	tr, _ := NewTranslator(client, 1, 0)
	if _, err := tr.Translate(ctx, texts(2), "en", "fr", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.batches) != 0 {
		t.Fatalf("expected no calls, got %d", len(client.batches))
	}
}

func TestTranslator_RateLimiter(t *testing.T) {
	client := &recordingClient{}
	tr, _ := NewTranslator(client, 1, 20)

	if _, err := tr.Translate(context.Background(), texts(3), "en", "fr", nil); err != nil {
		t.Fatal(err)
	}
	// 20 qps with burst 1 spaces calls by ~50ms.
	if gap := client.times[2].Sub(client.times[0]); gap < 80*time.Millisecond {
		t.Fatalf("expected paced calls, got gap %v", gap)
	}
}

func TestNewTranslator_Validation(t *testing.T) {
	if _, err := NewTranslator(nil, 10, 0); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewTranslator(&recordingClient{}, 0, 0); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}
