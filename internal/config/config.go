package config

import (
	"time"

	"github.com/spf13/viper"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatToon = "toon"
)

// DefaultConfig is written by `compsearch init`
const DefaultConfig = `[search]
case_sensitive = false
include_inactive = true

[output]
format = "text"
progress = true

[scene]
patterns = ["*.scene.yaml", "*.scene.yml", "*.scene.json", "*.scene.toml"]

[watch]
debounce_ms = 200
`

// SetDefaults registers default values for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("search.case_sensitive", false)
	v.SetDefault("search.include_inactive", true)
	v.SetDefault("output.format", FormatText)
	v.SetDefault("output.progress", true)
	v.SetDefault("scene.patterns", []string{"*.scene.yaml", "*.scene.yml", "*.scene.json", "*.scene.toml"})
	v.SetDefault("watch.debounce_ms", 200)
}

// GetCaseSensitive returns whether matching is case-sensitive by default
func GetCaseSensitive() bool {
	return viper.GetBool("search.case_sensitive")
}

// GetIncludeInactive returns whether inactive subtrees are searched by default
func GetIncludeInactive() bool {
	return viper.GetBool("search.include_inactive")
}

// GetOutputFormat returns the default result format
func GetOutputFormat() string {
	return viper.GetString("output.format")
}

// GetShowProgress returns whether a progress bar is drawn on stderr
func GetShowProgress() bool {
	return viper.GetBool("output.progress")
}

// GetScenePatterns returns the file name patterns used when a scene
// argument is a directory
func GetScenePatterns() []string {
	return viper.GetStringSlice("scene.patterns")
}

// GetWatchDebounce returns how long to wait for file events to settle
func GetWatchDebounce() time.Duration {
	ms := viper.GetInt("watch.debounce_ms")
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}
