package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/openai/openai-go/v2"
)

// Saver stores and restores per-thread conversation checkpoints.
type Saver interface {
	// Get returns the checkpointed conversation for a thread, or nil when the
	// thread has no checkpoint yet.
	Get(ctx context.Context, threadID string) ([]openai.ChatCompletionMessageParamUnion, error)
	// Put replaces the thread's checkpoint with msgs.
	Put(ctx context.Context, threadID string, msgs []openai.ChatCompletionMessageParamUnion) error
	// Threads lists thread IDs with a checkpoint, sorted.
	Threads(ctx context.Context) ([]string, error)
}

// InMemorySaver keeps checkpoints for the lifetime of the process.
type InMemorySaver struct {
	mu      sync.Mutex
	threads map[string][]openai.ChatCompletionMessageParamUnion
}

func NewInMemorySaver() *InMemorySaver {
	return &InMemorySaver{threads: make(map[string][]openai.ChatCompletionMessageParamUnion)}
}

func (s *InMemorySaver) Get(_ context.Context, threadID string) ([]openai.ChatCompletionMessageParamUnion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.threads[threadID]), nil
}

func (s *InMemorySaver) Put(_ context.Context, threadID string, msgs []openai.ChatCompletionMessageParamUnion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = slices.Clone(msgs)
	return nil
}

func (s *InMemorySaver) Threads(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
