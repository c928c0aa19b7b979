package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pders01/compsearch/internal/config"
	"github.com/pders01/compsearch/internal/models"
	"github.com/pders01/compsearch/internal/scene"
	"github.com/pders01/compsearch/internal/search"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <components> <scene>...",
	Short: "Re-run a search whenever a scene file changes",
	Long: `Watch scene files and search them again after every change.

A change that arrives while a search is still running cancels that search
and starts a new one. Search options come from the config file and the
environment (COMPSEARCH_SEARCH_CASE_SENSITIVE, ...).

Example:
  compsearch watch Rigidbody scenes/`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	params := models.NewSearchParameters(args[0], config.GetCaseSensitive(), config.GetIncludeInactive())
	if len(params.TargetNames) == 0 {
		return fmt.Errorf("%w: please enter at least one component name", search.ErrInvalidInput)
	}

	set := newWatchSet(args[1:], config.GetScenePatterns())
	paths, dirs, err := set.refresh(appFs)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Directories survive editors that replace files on save
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(stdout, "Watching %d scene file(s). Press Ctrl-C to stop.\n", len(paths))

	searcher := search.NewSearcher(search.WithLogger(logger))
	var (
		wg      conc.WaitGroup
		printMu sync.Mutex
	)
	trigger := func() {
		paths, dirs, err := set.refresh(appFs)
		if err != nil {
			logger.Warn("failed to expand scenes", "error", err)
			return
		}
		for _, dir := range dirs {
			if err := watcher.Add(dir); err != nil {
				logger.Warn("failed to watch directory", "dir", dir, "error", err)
			}
		}

		forest, err := scene.LoadAll(appFs, paths)
		if err != nil {
			logger.Warn("failed to reload scenes", "error", err)
			return
		}

		wg.Go(func() {
			sess, err := runSession(ctx, searcher, forest, params, nil)
			if err != nil {
				logger.Warn("search failed", "error", err)
				return
			}
			if sess.State() == search.StateCancelled && ctx.Err() == nil {
				logger.Debug("search superseded", "session", sess.ID())
				return
			}

			printMu.Lock()
			defer printMu.Unlock()
			printWatchReport(stdout, sess, params)
		})
	}

	err = watchLoop(ctx, watcher.Events, watcher.Errors, set.relevant, config.GetWatchDebounce(), trigger)
	searcher.Cancel()
	wg.Wait()
	return err
}

// printWatchReport prints a finished watch search and logs, rather than
// returns, any failure
func printWatchReport(w io.Writer, sess *search.Session, params models.SearchParameters) {
	found := sess.Paths()
	err := printReport(w, searchReport{
		Components:      params.TargetNames,
		CaseSensitive:   params.CaseSensitive,
		IncludeInactive: params.IncludeInactive,
		State:           sess.State().String(),
		Progress:        sess.Progress(),
		Found:           len(found),
		Paths:           found,
	}, config.GetOutputFormat())
	if err != nil {
		logger.Warn("failed to print report", "session", sess.ID(), "error", err)
	}
}

// watchSet tracks the scene files a watch searches and the directories
// where new scene files can appear. It is only used from the watch loop.
type watchSet struct {
	args     []string
	patterns []string
	files    map[string]bool
	dirs     map[string]bool
}

func newWatchSet(args, patterns []string) *watchSet {
	return &watchSet{
		args:     args,
		patterns: patterns,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}
}

// refresh expands the scene arguments again. It returns the scene paths
// and the directories that were not watched before.
func (w *watchSet) refresh(fsys afero.Fs) ([]string, []string, error) {
	paths, err := scene.Expand(fsys, w.args, w.patterns)
	if err != nil {
		return nil, nil, err
	}
	scanned, err := scene.Dirs(fsys, w.args)
	if err != nil {
		return nil, nil, err
	}

	files := make(map[string]bool, len(paths))
	var candidates []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = true
		candidates = append(candidates, filepath.Dir(abs))
	}
	for _, d := range scanned {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", d, err)
		}
		candidates = append(candidates, abs)
	}

	var added []string
	for _, d := range candidates {
		if !w.dirs[d] {
			w.dirs[d] = true
			added = append(added, d)
		}
	}
	w.files = files

	return paths, added, nil
}

// relevant reports whether ev touches a searched scene file or adds an
// entry to a watched directory
func (w *watchSet) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	if w.files[abs] {
		return true
	}
	return ev.Has(fsnotify.Create) && w.dirs[filepath.Dir(abs)]
}

// watchLoop calls trigger once up front and again after relevant events
// have been quiet for debounce. It returns when ctx is done or the
// event channel closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, relevant func(fsnotify.Event) bool, debounce time.Duration, trigger func()) error {
	trigger()

	// Stopped timers never deliver a stale tick
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			logger.Debug("scene changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-timer.C:
			trigger()
		}
	}
}
