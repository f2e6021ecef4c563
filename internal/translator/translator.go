package translator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Safe-Deal/json-i18n-whisper/internal/apperrors"
	"github.com/Safe-Deal/json-i18n-whisper/internal/batcher"
	"github.com/Safe-Deal/json-i18n-whisper/internal/logger"
	"golang.org/x/time/rate"
)

// Client translates one batch of strings from source to target.
// Implementations must return exactly one string per input, in order.
type Client interface {
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// DefaultQPS paces batch submission unless configured otherwise.
const DefaultQPS = 5

// BatchState is the lifecycle stage reported for a batch.
type BatchState int

const (
	StateStarted BatchState = iota
	StateCompleted
	StateCanceled
)

// Progress is reported before and after each batch.
type Progress struct {
	Target       string
	BatchIndex   int
	TotalBatches int
	State        BatchState
	Error        error
}

// Translator submits batches to a Client one after another.
type Translator struct {
	client    Client
	batchSize int
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewTranslator creates a Translator. qps <= 0 disables pacing.
func NewTranslator(client Client, batchSize int, qps float64) (*Translator, error) {
	if client == nil {
		return nil, fmt.Errorf("translation client is required")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batchSize must be greater than 0, got %d", batchSize)
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if qps > 0 {
		limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return &Translator{
		client:    client,
		batchSize: batchSize,
		limiter:   limiter,
		log:       logger.With(),
	}, nil
}

// SetLogger replaces the logger used for batch progress.
func (t *Translator) SetLogger(l *slog.Logger) {
	if l != nil {
		t.log = l
	}
}

// Translate translates texts into target and returns them aligned 1:1 with the input.
// The first failing batch aborts the call; nothing is retried.
func (t *Translator) Translate(ctx context.Context, texts []string, source, target string, onProgress func(Progress)) ([]string, error) {
	batches := batcher.Split(texts, t.batchSize)
	out := make([]string, 0, len(texts))

	report := func(p Progress) {
		if onProgress != nil {
			p.Target = target
			p.TotalBatches = len(batches)
			onProgress(p)
		}
	}

	for _, b := range batches {
		if err := t.limiter.Wait(ctx); err != nil {
			report(Progress{BatchIndex: b.Index, State: StateCanceled, Error: ctx.Err()})
			return nil, fmt.Errorf("waiting for batch %d: %w", b.Index+1, err)
		}
		report(Progress{BatchIndex: b.Index, State: StateStarted})

		translated, err := t.client.Translate(ctx, b.Texts, source, target)
		if err != nil {
			if ctx.Err() != nil {
				report(Progress{BatchIndex: b.Index, State: StateCanceled, Error: ctx.Err()})
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("batch %d/%d: %w", b.Index+1, len(batches), err)
		}
		if len(translated) != len(b.Texts) {
			return nil, apperrors.Validation(fmt.Errorf("batch %d/%d returned %d strings for %d inputs",
				b.Index+1, len(batches), len(translated), len(b.Texts)))
		}
		out = append(out, translated...)

		t.log.Debug("Batch completed", "target", target, "batch", b.Index+1, "of", len(batches), "strings", len(b.Texts))
		report(Progress{BatchIndex: b.Index, State: StateCompleted})
	}
	return out, nil
}
