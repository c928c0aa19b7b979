package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/pders01/compsearch/internal/config"
	"github.com/pders01/compsearch/internal/testutil"
	"github.com/spf13/viper"
)

// setupCmdTest points the commands at an in-memory scene directory and
// captures their output
func setupCmdTest(t *testing.T) (*testutil.TempScene, *bytes.Buffer) {
	t.Helper()

	scene := testutil.NewMemScene(t)
	var out, errOut bytes.Buffer

	oldFs, oldOut, oldErr, oldLogger := appFs, stdout, stderr, logger
	appFs = scene.Fs
	stdout = &out
	stderr = &errOut
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	config.SetDefaults(viper.GetViper())
	viper.Set("search.case_sensitive", false)
	viper.Set("search.include_inactive", true)
	viper.Set("output.format", config.FormatText)
	viper.Set("output.progress", true)

	searchOutput = ""
	searchJSON = false
	searchToon = false
	searchNoProgress = false
	statsJSON = false
	statsToon = false
	statsTop = 10
	initForce = false
	initDir = ""

	t.Cleanup(func() {
		appFs, stdout, stderr, logger = oldFs, oldOut, oldErr, oldLogger
	})

	return scene, &out
}
