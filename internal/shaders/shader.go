package shaders

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
)

type Stage int

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// VertexSource is the fixed vertex stage. It passes the clip-space quad
// through untouched; user programs only replace the fragment stage.
const VertexSource = `#version 410 core
in vec4 position;
void main() {
	gl_Position = position;
}
`

// DefaultExample is shown when no shader file is given.
const DefaultExample = "plasma"

//go:embed examples/*.frag.glsl
var examples embed.FS

// Examples lists the names of the bundled example shaders.
func Examples() []string {
	entries, err := examples.ReadDir("examples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".frag.glsl"))
	}
	sort.Strings(names)
	return names
}

func Example(name string) (string, error) {
	data, err := examples.ReadFile(path.Join("examples", name+".frag.glsl"))
	if err != nil {
		return "", fmt.Errorf("unknown example %q", name)
	}
	return string(data), nil
}

// LoadSource reads a fragment program from disk. A leading ~ is expanded.
func LoadSource(file string) (string, error) {
	expanded, err := homedir.Expand(file)
	if err != nil {
		return "", err
	}
	sourceBytes, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to read shader file %q: %v", file, err)
	}
	return string(sourceBytes), nil
}
