package search

import (
	"sync"

	"github.com/pders01/compsearch/internal/models"
)

// Searcher owns at most one active session. Starting a new search cancels
// and disowns the previous one, so no two sessions feed the same caller.
type Searcher struct {
	mu     sync.Mutex
	active *Session
	opts   []Option
}

// NewSearcher creates a Searcher whose sessions use opts
func NewSearcher(opts ...Option) *Searcher {
	return &Searcher{opts: opts}
}

// Start validates params, cancels any active session and returns a handle
// to a new running session. opts are applied after the Searcher's own.
// On invalid input the active session is left untouched.
func (t *Searcher) Start(forest []*models.Node, params models.SearchParameters, opts ...Option) (*Session, error) {
	sess := NewSession(append(append([]Option(nil), t.opts...), opts...)...)
	sess.onDone = t.release
	if err := sess.Start(forest, params); err != nil {
		return nil, err
	}

	t.mu.Lock()
	prev := t.active
	t.active = sess
	t.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	return sess, nil
}

// Active returns the running session, or nil once it has finished
func (t *Searcher) Active() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Cancel requests cancellation of the active session, if any
func (t *Searcher) Cancel() {
	if sess := t.Active(); sess != nil {
		sess.Cancel()
	}
}

func (t *Searcher) release(sess *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == sess {
		t.active = nil
	}
}
