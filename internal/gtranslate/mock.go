package gtranslate

import (
	"context"
	"sync"
)

// Call records one request made to a MockClient.
type Call struct {
	Texts  []string
	Source string
	Target string
}

// MockClient for testing. When Func is nil every text is echoed back
// prefixed with "<target>:".
type MockClient struct {
	Func func(texts []string, source, target string) ([]string, error)

	mu    sync.Mutex
	calls []Call
}

func (m *MockClient) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Texts: append([]string(nil), texts...), Source: source, Target: target})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Func != nil {
		return m.Func(texts, source, target)
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = target + ":" + s
	}
	return out, nil
}

// Calls returns a copy of the recorded requests.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}
