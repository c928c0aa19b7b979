package scene

import (
	"testing"

	"github.com/pders01/compsearch/internal/models"
	"github.com/pders01/compsearch/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultPatterns = []string{"*.scene.yaml", "*.scene.json", "*.scene.toml"}

func TestExpand(t *testing.T) {
	s := testutil.NewMemScene(t)
	main := s.CreateFile("main.scene.yaml", "roots: []")
	menu := s.CreateFile("ui/menu.scene.json", `{"roots": []}`)
	s.CreateFile("ui/notes.txt", "not a scene")
	extra := s.CreateFile("levels/deep/one.yaml", "roots: []")

	t.Run("directory", func(t *testing.T) {
		got, err := Expand(s.Fs, []string{"/scenes"}, defaultPatterns)
		require.NoError(t, err)
		assert.Equal(t, []string{main, menu}, got)
	})

	t.Run("glob", func(t *testing.T) {
		got, err := Expand(s.Fs, []string{"/scenes/**/*.yaml"}, defaultPatterns)
		require.NoError(t, err)
		assert.Equal(t, []string{extra, main}, got)
	})

	t.Run("file and duplicates", func(t *testing.T) {
		got, err := Expand(s.Fs, []string{extra, "/scenes/levels/deep/../deep/one.yaml", main}, defaultPatterns)
		require.NoError(t, err)
		assert.Equal(t, []string{extra, main}, got)
	})

	t.Run("unclean glob", func(t *testing.T) {
		for _, pattern := range []string{"/scenes/./ui/*.json", "/scenes//ui/*.json", "/scenes/levels/../ui/*.json"} {
			got, err := Expand(s.Fs, []string{pattern}, defaultPatterns)
			require.NoError(t, err, pattern)
			assert.Equal(t, []string{menu}, got, pattern)
		}
	})

	t.Run("literal name with glob syntax", func(t *testing.T) {
		odd := s.CreateFile("levels/level[1].scene.yaml", "roots: []")
		got, err := Expand(s.Fs, []string{odd}, defaultPatterns)
		require.NoError(t, err)
		assert.Equal(t, []string{odd}, got)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := Expand(s.Fs, []string{"/scenes/**/*.toml"}, defaultPatterns)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Expand(s.Fs, []string{"/scenes/nope.yaml"}, defaultPatterns)
		assert.Error(t, err)
	})
}

func TestExpandRelativeGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("levels", 0755))
	require.NoError(t, afero.WriteFile(fs, "levels/a.scene.yaml", []byte("roots: []"), 0644))

	for _, pattern := range []string{"levels/*.yaml", "./levels/*.yaml", "levels//*.yaml"} {
		got, err := Expand(fs, []string{pattern}, defaultPatterns)
		require.NoError(t, err, pattern)
		assert.Equal(t, []string{"levels/a.scene.yaml"}, got, pattern)
	}
}

func TestDirs(t *testing.T) {
	s := testutil.NewMemScene(t)
	file := s.CreateFile("main.scene.yaml", "roots: []")
	s.CreateFile("ui/menu.scene.json", `{"roots": []}`)
	s.CreateFile("levels/deep/one.yaml", "roots: []")

	t.Run("directory", func(t *testing.T) {
		got, err := Dirs(s.Fs, []string{"/scenes/"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/scenes", "/scenes/levels", "/scenes/levels/deep", "/scenes/ui"}, got)
	})

	t.Run("glob base", func(t *testing.T) {
		got, err := Dirs(s.Fs, []string{"/scenes/levels/**/*.yaml", "/scenes/levels"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/scenes/levels", "/scenes/levels/deep"}, got)
	})

	t.Run("files and missing", func(t *testing.T) {
		got, err := Dirs(s.Fs, []string{file, "/scenes/nope", "/nope/*.yaml"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSummarize(t *testing.T) {
	forest := testutil.SampleForest()
	// Alias a node to check it is counted once
	forest[0].Children = append(forest[0].Children, forest[0].Children[0])

	stats := Summarize(forest)

	assert.Equal(t, 2, stats.Roots)
	assert.Equal(t, 6, stats.Nodes)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 3, stats.MaxDepth)
	assert.Equal(t, 6, stats.ByType["Transform"])
	assert.Equal(t, 2, stats.ByType["Rigidbody"])
	require.NotEmpty(t, stats.TopTypes)
	assert.Equal(t, TypeStat{Type: "Transform", Count: 6}, stats.TopTypes[0])
	assert.Equal(t, TypeStat{Type: "Rigidbody", Count: 2}, stats.TopTypes[1])
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize([]*models.Node{})
	assert.Zero(t, stats.Nodes)
	assert.Empty(t, stats.TopTypes)
}
