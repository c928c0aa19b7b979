package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pders01/compsearch/internal/export"
	"github.com/pders01/compsearch/internal/search"
	"github.com/pders01/compsearch/internal/testutil"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func TestSearchFindsMatches(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	if err := runSearch(nil, []string{"rigidbody", path}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Found 2 node(s):",
		"/World/Player\n",
		"/World/Disabled/Crate\n",
		"Search completed. Found 2 node(s) with specified component(s).",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestSearchExcludeInactive(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	viper.Set("search.include_inactive", false)
	if err := runSearch(nil, []string{"Rigidbody", path}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "/World/Player") {
		t.Errorf("expected active match in output:\n%s", got)
	}
	if strings.Contains(got, "Crate") {
		t.Errorf("inactive subtree should not be searched:\n%s", got)
	}
}

func TestSearchCaseSensitive(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	viper.Set("search.case_sensitive", true)
	if err := runSearch(nil, []string{"rigidbody", path}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	if !strings.Contains(out.String(), "No results to display.") {
		t.Errorf("case-sensitive search should not match:\n%s", out.String())
	}
}

func TestSearchInvalidInput(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	err := runSearch(nil, []string{"  ,  ", path})
	if !errors.Is(err, search.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed on invalid input, got:\n%s", out.String())
	}
}

func TestSearchMissingScene(t *testing.T) {
	setupCmdTest(t)

	if err := runSearch(nil, []string{"Light", "/scenes/missing.scene.yaml"}); err == nil {
		t.Fatal("expected error for missing scene")
	}
}

func TestSearchDirectory(t *testing.T) {
	s, out := setupCmdTest(t)
	s.CreateFile("a.scene.yaml", "roots:\n  - name: A\n    components: [Light]\n")
	s.CreateFile("b.scene.json", `{"roots": [{"name": "B", "components": ["Light"]}]}`)
	s.CreateFile("readme.md", "# not a scene")

	if err := runSearch(nil, []string{"Light", s.Dir}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "  /A\n  /B\n") {
		t.Errorf("expected /A then /B:\n%s", got)
	}
}

func TestSearchExport(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	searchOutput = "/scenes/results.txt"
	if err := runSearch(nil, []string{"Transform", path}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	lines, err := export.ReadLines(s.Fs, "/scenes/results.txt")
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}

	want := []string{"/World", "/World/Player", "/World/Player/Weapon", "/World/Disabled", "/World/Disabled/Crate", "/Lights"}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("export = %v, want %v", lines, want)
	}
	if !strings.Contains(out.String(), "Results exported to: /scenes/results.txt") {
		t.Errorf("missing export confirmation:\n%s", out.String())
	}
}

func TestSearchExportFailureKeepsResults(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)
	appFs = afero.NewReadOnlyFs(s.Fs)

	searchOutput = "/scenes/results.txt"
	err := runSearch(nil, []string{"Light", path})
	if !errors.Is(err, export.ErrExportFailure) {
		t.Fatalf("expected ErrExportFailure, got %v", err)
	}

	if !strings.Contains(out.String(), "/Lights") {
		t.Errorf("results should still be printed:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Results exported") {
		t.Errorf("failed export must not be confirmed:\n%s", out.String())
	}
}

func TestSearchJSON(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	searchJSON = true
	if err := runSearch(nil, []string{"Light, BoxCollider", path}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	var report searchReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
	}

	if report.State != "completed" || report.Found != 2 || report.Progress != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if strings.Join(report.Paths, ",") != "/World/Player/Weapon,/Lights" {
		t.Errorf("paths = %v", report.Paths)
	}
	if strings.Join(report.Components, ",") != "Light,BoxCollider" {
		t.Errorf("components = %v", report.Components)
	}
}

func TestSearchToon(t *testing.T) {
	s, out := setupCmdTest(t)
	path := s.CreateFile("level.scene.yaml", testutil.SampleYAML)

	searchToon = true
	if err := runSearch(nil, []string{"Light", path}); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	if !strings.Contains(out.String(), "Lights") {
		t.Errorf("toon output missing result:\n%s", out.String())
	}
}
