package testutil

import (
	"path/filepath"
	"testing"

	"github.com/pders01/compsearch/internal/models"
	"github.com/spf13/afero"
)

// TempScene holds scene files in a scratch directory for testing
type TempScene struct {
	Dir string
	Fs  afero.Fs
	T   *testing.T
}

// NewTempScene creates a scene directory on the real file system,
// removed automatically when the test ends
func NewTempScene(t *testing.T) *TempScene {
	t.Helper()

	return &TempScene{
		Dir: t.TempDir(),
		Fs:  afero.NewOsFs(),
		T:   t,
	}
}

// NewMemScene creates a scene directory on an in-memory file system
func NewMemScene(t *testing.T) *TempScene {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/scenes", 0755); err != nil {
		t.Fatalf("failed to create scene dir: %v", err)
	}

	return &TempScene{
		Dir: "/scenes",
		Fs:  fs,
		T:   t,
	}
}

// CreateFile writes a scene file and returns its path
func (s *TempScene) CreateFile(name, content string) string {
	s.T.Helper()

	path := filepath.Join(s.Dir, name)
	if err := s.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		s.T.Fatalf("failed to create directory: %v", err)
	}
	if err := afero.WriteFile(s.Fs, path, []byte(content), 0644); err != nil {
		s.T.Fatalf("failed to create file: %v", err)
	}
	return path
}

// ReadFile returns the content of a file in the scene directory
func (s *TempScene) ReadFile(name string) string {
	s.T.Helper()

	data, err := afero.ReadFile(s.Fs, filepath.Join(s.Dir, name))
	if err != nil {
		s.T.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

// SampleYAML is a small scene used across command tests.
// World/Player carries a Rigidbody, World/Disabled is inactive and
// hides an active Rigidbody beneath it.
const SampleYAML = `roots:
  - name: World
    components: [Transform]
    children:
      - name: Player
        components: [Transform, Rigidbody]
        children:
          - name: Weapon
            components: [Transform, BoxCollider]
      - name: Disabled
        active: false
        components: [Transform]
        children:
          - name: Crate
            components: [Transform, Rigidbody]
  - name: Lights
    components: [Transform, Light]
`

// SampleForest builds the forest described by SampleYAML
func SampleForest() []*models.Node {
	world := models.NewNode("World", "Transform")
	player := world.AddChild(models.NewNode("Player", "Transform", "Rigidbody"))
	player.AddChild(models.NewNode("Weapon", "Transform", "BoxCollider"))

	disabled := world.AddChild(models.NewNode("Disabled", "Transform"))
	disabled.Active = false
	disabled.AddChild(models.NewNode("Crate", "Transform", "Rigidbody"))

	lights := models.NewNode("Lights", "Transform", "Light")

	return []*models.Node{world, lights}
}
