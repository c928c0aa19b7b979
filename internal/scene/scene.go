package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pders01/compsearch/internal/models"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for scene files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// File is the on-disk scene document
//
//	roots:
//	  - name: World
//	    components: [Transform]
//	    children:
//	      - name: Player
//	        active: false
//	        components: [Transform, Rigidbody]
type File struct {
	Roots []NodeSpec `json:"roots" yaml:"roots" toml:"roots"`
}

// NodeSpec is the serialized form of a node. Active defaults to true.
type NodeSpec struct {
	Name       string     `json:"name" yaml:"name" toml:"name"`
	Active     *bool      `json:"active,omitempty" yaml:"active,omitempty" toml:"active,omitempty"`
	Components []string   `json:"components,omitempty" yaml:"components,omitempty" toml:"components,omitempty"`
	Children   []NodeSpec `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Format identifies a scene encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks the format from a file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Decode parses a scene document and returns its roots with parent links set
func Decode(data []byte, format Format) ([]*models.Node, error) {
	var file File

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON scene: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML scene: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	roots := make([]*models.Node, 0, len(file.Roots))
	for i := range file.Roots {
		roots = append(roots, build(&file.Roots[i], nil))
	}
	return roots, nil
}

// Load reads one scene file
func Load(fs afero.Fs, path string) ([]*models.Node, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	roots, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roots, nil
}

// LoadAll concatenates the forests of several scene files in argument order
func LoadAll(fs afero.Fs, paths []string) ([]*models.Node, error) {
	var forest []*models.Node
	for _, path := range paths {
		roots, err := Load(fs, path)
		if err != nil {
			return nil, err
		}
		forest = append(forest, roots...)
	}
	return forest, nil
}

// Encode serializes a forest back into a scene document
func Encode(roots []*models.Node, format Format) ([]byte, error) {
	file := File{Roots: make([]NodeSpec, 0, len(roots))}
	for _, r := range roots {
		file.Roots = append(file.Roots, spec(r))
	}

	switch format {
	case FormatJSON:
		return json.MarshalIndent(file, "", "  ")
	case FormatYAML:
		return yaml.Marshal(file)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(file); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func build(s *NodeSpec, parent *models.Node) *models.Node {
	n := models.NewNode(s.Name, s.Components...)
	if s.Active != nil {
		n.Active = *s.Active
	}
	n.Parent = parent
	for i := range s.Children {
		n.Children = append(n.Children, build(&s.Children[i], n))
	}
	return n
}

func spec(n *models.Node) NodeSpec {
	s := NodeSpec{Name: n.Name}
	if !n.Active {
		inactive := false
		s.Active = &inactive
	}
	for _, a := range n.Attachments {
		if a.Type != "" {
			s.Components = append(s.Components, a.Type)
		}
	}
	for _, c := range n.Children {
		if c != nil {
			s.Children = append(s.Children, spec(c))
		}
	}
	return s
}
