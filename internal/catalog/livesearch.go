package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/piwi3910/StoneQuote/internal/logging"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a typed query must stay unchanged before it is searched.
const DefaultDebounce = 300 * time.Millisecond

// SearchFunc runs one catalog search.
type SearchFunc[T any] func(ctx context.Context, text string) ([]T, error)

// LiveSearch debounces search-as-you-type queries. Each new query cancels
// the one before it, and a query whose answer arrives after a newer query
// started is reported as stale. Search failures are logged and degrade to
// an empty result.
type LiveSearch[T any] struct {
	search   SearchFunc[T]
	debounce time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewLiveSearch creates a live search. A non-positive debounce uses DefaultDebounce.
func NewLiveSearch[T any](search SearchFunc[T], debounce time.Duration) *LiveSearch[T] {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &LiveSearch[T]{
		search:   search,
		debounce: debounce,
		log:      logging.Named("catalog"),
	}
}

// Query searches for text once the debounce has passed. current is false
// when a newer query superseded this one; its results must be discarded.
// An empty text clears the results without searching.
func (l *LiveSearch[T]) Query(ctx context.Context, text string) (results []T, current bool) {
	text = strings.TrimSpace(text)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	if text == "" {
		return nil, l.isCurrent(seq)
	}

	timer := time.NewTimer(l.debounce)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, false
	case <-timer.C:
	}

	results, err := l.search(ctx, text)
	if !l.isCurrent(seq) {
		return nil, false
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		l.log.Warn("catalog search failed", zap.String("query", text), zap.Error(err))
		return nil, true
	}
	return results, true
}

// Close cancels any query in flight.
func (l *LiveSearch[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}

func (l *LiveSearch[T]) isCurrent(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq == seq
}
