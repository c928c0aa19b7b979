package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/compsearch/internal/config"
	"github.com/pders01/compsearch/internal/export"
	"github.com/pders01/compsearch/internal/models"
	"github.com/pders01/compsearch/internal/scene"
	"github.com/pders01/compsearch/internal/search"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	searchOutput     string
	searchJSON       bool
	searchToon       bool
	searchNoProgress bool

	// stdout and stderr are swapped in tests
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var searchCmd = &cobra.Command{
	Use:   "search <components> <scene>...",
	Short: "Find nodes carrying any of the given component types",
	Long: `Search scene hierarchies for nodes with at least one matching component.

Components are given as a comma-separated list. Each scene argument may be
a file, a directory (searched for files matching scene.patterns) or a glob
such as "levels/**/*.yaml".

Examples:
  compsearch search Rigidbody level.scene.yaml
  compsearch search "Rigidbody, BoxCollider" scenes/ --case-sensitive
  compsearch search Light "scenes/**/*.toml" --include-inactive=false
  compsearch search Camera scenes/ --output results.txt

Press Ctrl-C to cancel; matches from fully searched roots are kept.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Bool("case-sensitive", false, "Match component names case-sensitively")
	searchCmd.Flags().Bool("include-inactive", true, "Search inside inactive nodes")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Export paths to a text file (or directory)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	searchCmd.Flags().BoolVar(&searchToon, "toon", false, "Output in LLM-friendly toon format")
	searchCmd.Flags().BoolVar(&searchNoProgress, "no-progress", false, "Do not draw the progress bar")

	viper.BindPFlag("search.case_sensitive", searchCmd.Flags().Lookup("case-sensitive"))
	viper.BindPFlag("search.include_inactive", searchCmd.Flags().Lookup("include-inactive"))
}

type searchReport struct {
	Components      []string `json:"components"`
	CaseSensitive   bool     `json:"case_sensitive"`
	IncludeInactive bool     `json:"include_inactive"`
	State           string   `json:"state"`
	Progress        float64  `json:"progress"`
	Found           int      `json:"found"`
	Paths           []string `json:"paths"`
	Export          string   `json:"export,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	params := models.NewSearchParameters(args[0], config.GetCaseSensitive(), config.GetIncludeInactive())
	if len(params.TargetNames) == 0 {
		return fmt.Errorf("%w: please enter at least one component name", search.ErrInvalidInput)
	}

	forest, err := loadForest(args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var bar io.Writer
	if !searchNoProgress && config.GetShowProgress() && !searchJSON && !searchToon {
		bar = stderr
	}

	searcher := search.NewSearcher(search.WithLogger(logger))
	sess, err := runSession(ctx, searcher, forest, params, bar)
	if err != nil {
		return err
	}

	paths := sess.Paths()
	report := searchReport{
		Components:      params.TargetNames,
		CaseSensitive:   params.CaseSensitive,
		IncludeInactive: params.IncludeInactive,
		State:           sess.State().String(),
		Progress:        sess.Progress(),
		Found:           len(paths),
		Paths:           paths,
	}

	// Export before printing so the report can name the file; a failed
	// export is reported after the results are shown.
	var exportErr error
	if searchOutput != "" {
		dest, err := export.WriteFile(appFs, searchOutput, paths)
		if err != nil {
			exportErr = err
		} else {
			report.Export = dest
		}
	}

	if err := printReport(stdout, report, formatFromFlags(searchJSON, searchToon)); err != nil {
		return err
	}

	if exportErr != nil {
		return exportErr
	}
	return nil
}

func loadForest(args []string) ([]*models.Node, error) {
	paths, err := scene.Expand(appFs, args, config.GetScenePatterns())
	if err != nil {
		return nil, err
	}

	forest, err := scene.LoadAll(appFs, paths)
	if err != nil {
		return nil, err
	}

	logger.Debug("scenes loaded", "files", len(paths), "roots", len(forest))
	return forest, nil
}

// runSession drives one session on a worker goroutine and renders its
// progress on bar (nil disables rendering)
func runSession(ctx context.Context, searcher *search.Searcher, forest []*models.Node, params models.SearchParameters, bar io.Writer) (*search.Session, error) {
	// At most one update per root, or one for an empty forest
	updates := make(chan search.Progress, len(forest)+1)

	sess, err := searcher.Start(forest, params, search.WithProgress(func(p search.Progress) {
		updates <- p
	}))
	if err != nil {
		return nil, err
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(updates)
		sess.Run(ctx)
	})

	for p := range updates {
		if bar != nil {
			renderProgress(bar, p)
		}
	}
	wg.Wait()

	if bar != nil {
		fmt.Fprint(bar, "\r\033[K")
	}

	return sess, nil
}

func renderProgress(w io.Writer, p search.Progress) {
	const width = 30
	filled := int(math.Round(p.Fraction * width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	fmt.Fprintf(w, "\rSearching %s %3d%%  %s", string(bar), int(math.Round(p.Fraction*100)), p.Status)
}

func formatFromFlags(asJSON, asToon bool) string {
	switch {
	case asJSON:
		return config.FormatJSON
	case asToon:
		return config.FormatToon
	default:
		return config.GetOutputFormat()
	}
}

func printReport(w io.Writer, r searchReport, format string) error {
	switch format {
	case config.FormatJSON:
		output, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(output)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil

	case config.FormatToon:
		output, err := gotoon.Encode(r)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		if _, err := fmt.Fprintln(w, output); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}

	if r.Found == 0 {
		fmt.Fprintln(w, "No results to display.")
	} else {
		fmt.Fprintf(w, "Found %d node(s):\n\n", r.Found)
		for _, p := range r.Paths {
			fmt.Fprintf(w, "  %s\n", p)
		}
		fmt.Fprintln(w)
	}

	if r.State == search.StateCancelled.String() {
		fmt.Fprintf(w, "Search cancelled at %.0f%%. Showing matches from completed roots.\n", r.Progress*100)
	} else {
		fmt.Fprintf(w, "Search completed. Found %d node(s) with specified component(s).\n", r.Found)
	}

	if r.Export != "" {
		fmt.Fprintf(w, "✓ Results exported to: %s\n", r.Export)
	}

	return nil
}
