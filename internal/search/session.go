package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/compsearch/internal/models"
)

// ErrInvalidInput is returned when a search is started without any
// usable component name.
var ErrInvalidInput = errors.New("invalid input")

// State is the lifecycle state of a session
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further steps will run
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Progress is emitted after each completed root
type Progress struct {
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Fraction  float64 `json:"fraction"`
	Status    string  `json:"status"`
}

// ProgressFunc observes progress. It is called from the goroutine driving
// the session and must not call Step or Start on the same session.
type ProgressFunc func(Progress)

// Option configures a Session
type Option func(*Session)

// WithProgress registers a progress observer
func WithProgress(fn ProgressFunc) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// WithLogger sets the logger used for lifecycle events
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is one cancellable invocation of the traversal engine.
// Roots are processed one at a time; cancellation is observed only
// between roots, so a root is never half-traversed.
type Session struct {
	id       string
	logger   *slog.Logger
	observer ProgressFunc
	onDone   func(*Session)

	// stepMu serializes Step and Start; mu guards the fields below
	stepMu sync.Mutex
	mu     sync.Mutex

	state     State
	forest    []*models.Node
	params    models.SearchParameters
	visited   Visited
	results   []*models.Node
	next      int
	processed int
	progress  float64
	started   time.Time

	cancelled atomic.Bool
}

// NewSession creates an idle session
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		logger: slog.Default(),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates params and creates a running session over forest
func Start(forest []*models.Node, params models.SearchParameters, opts ...Option) (*Session, error) {
	s := NewSession(opts...)
	if err := s.Start(forest, params); err != nil {
		return nil, err
	}
	return s, nil
}

// Start resets the session and moves it to StateRunning. Prior results,
// progress and visited nodes are discarded.
func (s *Session) Start(forest []*models.Node, params models.SearchParameters) error {
	names := normalizeNames(params.TargetNames)
	if len(names) == 0 {
		return fmt.Errorf("%w: please enter at least one component name", ErrInvalidInput)
	}

	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	params = params.Clone()
	params.TargetNames = names

	s.mu.Lock()
	s.state = StateRunning
	s.forest = append([]*models.Node(nil), forest...)
	s.params = params
	s.visited = NewVisited()
	s.results = nil
	s.next = 0
	s.processed = 0
	s.progress = 0
	s.started = time.Now()
	s.cancelled.Store(false)
	s.mu.Unlock()

	s.logger.Debug("search started",
		"session", s.id,
		"roots", len(forest),
		"components", strings.Join(names, ","),
		"case_sensitive", params.CaseSensitive,
		"include_inactive", params.IncludeInactive)

	return nil
}

// Step processes the next root and reports whether more work remains.
// It returns false once the session is terminal or was never started.
func (s *Session) Step() bool {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return false
	}

	if s.cancelled.Load() {
		s.state = StateCancelled
		s.visited = nil
		s.mu.Unlock()
		s.finish()
		return false
	}

	total := len(s.forest)
	if s.next >= total {
		// Only reachable for an empty forest
		s.state = StateCompleted
		s.progress = 1
		s.visited = nil
		s.mu.Unlock()
		s.emit(Progress{Fraction: 1, Status: "No roots to process"})
		s.finish()
		return false
	}

	root := s.forest[s.next]
	s.next++
	params := s.params
	visited := s.visited
	s.mu.Unlock()

	for n := range Traverse(root, params, visited) {
		s.mu.Lock()
		s.results = append(s.results, n)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.processed++
	s.progress = float64(s.processed) / float64(total)
	p := Progress{
		Processed: s.processed,
		Total:     total,
		Fraction:  s.progress,
		Status:    fmt.Sprintf("Processing %d/%d roots...", s.processed, total),
	}
	done := s.processed == total
	if done {
		s.state = StateCompleted
		s.visited = nil
	}
	s.mu.Unlock()

	s.logger.Debug("root processed", "session", s.id, "root", root.Path(), "processed", p.Processed, "total", total)
	s.emit(p)

	if done {
		s.finish()
		return false
	}
	return true
}

// Run drives the session until it is terminal. A done ctx requests
// cancellation, observed at the next root boundary.
func (s *Session) Run(ctx context.Context) State {
	for {
		if ctx.Err() != nil {
			s.Cancel()
		}
		if !s.Step() {
			break
		}
	}
	return s.State()
}

// Cancel requests cancellation. It is idempotent and never interrupts a
// root that is already being traversed.
func (s *Session) Cancel() {
	s.cancelled.Store(true)
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRunning reports whether the session has started and is not terminal
func (s *Session) IsRunning() bool {
	return s.State() == StateRunning
}

// Progress returns the last emitted fraction in [0,1]
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Results returns a point-in-time copy of the matches found so far
func (s *Session) Results() []*models.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Node(nil), s.results...)
}

// Paths returns the path strings of Results
func (s *Session) Paths() []string {
	return models.Paths(s.Results())
}

// Params returns the parameters the session was started with
func (s *Session) Params() models.SearchParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Clone()
}

func (s *Session) emit(p Progress) {
	if s.observer != nil {
		s.observer(p)
	}
}

func (s *Session) finish() {
	s.mu.Lock()
	state := s.state
	found := len(s.results)
	elapsed := time.Since(s.started)
	s.mu.Unlock()

	switch state {
	case StateCancelled:
		s.logger.Info("search cancelled", "session", s.id, "found", found, "elapsed", elapsed)
	default:
		s.logger.Info("search completed", "session", s.id, "found", found, "elapsed", elapsed)
	}

	if s.onDone != nil {
		s.onDone(s)
	}
}

func normalizeNames(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
