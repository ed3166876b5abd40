// Package config loads optional run-level defaults from
// {repo_root}/.agentos/config.yaml. It is consulted only for flags the
// caller did not set explicitly on the command line; CLI flags and
// AGENTOS_WORKFLOW_DB remain the authoritative configuration surface.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v2"
)

// FileName is the config file's name inside the .agentos directory.
const FileName = "config.yaml"

// Defaults holds the subset of run flags a config file may default.
// Zero values mean "not set in the file" and must not override an
// explicit flag with zero-value semantics (callers only apply a field
// when it is non-zero / non-empty).
type Defaults struct {
	ModelProvider string `yaml:"model_provider"`
	Model         string `yaml:"model"`
	MaxIterations int    `yaml:"max_iterations"`
	SkipDocs      bool   `yaml:"skip_docs"`
	HasE2E        bool   `yaml:"has_e2e"`
}

// Load reads {repoRoot}/.agentos/config.yaml. A missing file is not an
// error: it returns a zero-value Defaults so callers fall back to their
// own flag defaults.
func Load(repoRoot string) (Defaults, error) {
	path := filepath.Join(repoRoot, ".agentos", FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults{}, nil
		}
		return Defaults{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}
