package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/compsearch/internal/scene"
	"github.com/spf13/cobra"
)

var (
	statsJSON bool
	statsToon bool
	statsTop  int
)

var statsCmd = &cobra.Command{
	Use:   "stats <scene>...",
	Short: "Show scene hierarchy statistics",
	Long: `Display statistics about scene hierarchies including:
  - Root and node counts
  - Inactive node count
  - Maximum hierarchy depth
  - Component type usage

Examples:
  compsearch stats level.scene.yaml
  compsearch stats scenes/ --json
  compsearch stats scenes/ --toon`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsToon, "toon", false, "Output in LLM-friendly toon format")
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "Number of component types to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	forest, err := loadForest(args)
	if err != nil {
		return err
	}

	stats := scene.Summarize(forest)

	// Output JSON if requested
	if statsJSON {
		output, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(output))
		return nil
	}

	// Output Toon if requested
	if statsToon {
		output, err := gotoon.Encode(stats)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(stdout, output)
		return nil
	}

	// Display human-readable stats
	fmt.Fprintln(stdout, "Scene Statistics")
	fmt.Fprintln(stdout, "━━━━━━━━━━━━━━━━")
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Roots:       %d\n", stats.Roots)
	fmt.Fprintf(stdout, "Nodes:       %d\n", stats.Nodes)
	fmt.Fprintf(stdout, "Inactive:    %d\n", stats.Inactive)
	fmt.Fprintf(stdout, "Max depth:   %d\n", stats.MaxDepth)
	fmt.Fprintf(stdout, "Components:  %d\n", stats.Attachments)
	fmt.Fprintln(stdout)

	if len(stats.TopTypes) == 0 {
		return nil
	}

	fmt.Fprintln(stdout, "Top Component Types:")
	for i, ts := range stats.TopTypes {
		if statsTop > 0 && i >= statsTop {
			break
		}
		percentage := float64(ts.Count) / float64(stats.Nodes) * 100
		fmt.Fprintf(stdout, "  %-20s %4d  (%.1f%% of nodes)\n", ts.Type, ts.Count, percentage)
	}

	return nil
}
