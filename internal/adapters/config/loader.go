// Package config provides the configuration loader for smake.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/smake/internal/core/domain"
	"go.trai.ch/smake/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using an optional smake.yaml file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
	// Getenv reads overrides; it defaults to os.Getenv.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger: logger,
		FS:     OSFS{},
		Getenv: os.Getenv,
	}
}

// DiscoverRoot walks up from cwd and returns the first directory holding smake.yaml.
// Without one, cwd itself is the root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	start, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "cwd", cwd)
	}

	for dir := start; ; {
		if _, err := l.FS.Stat(filepath.Join(dir, domain.ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

// Load reads root/smake.yaml and applies environment overrides on top of it.
// A missing file yields the defaults.
func (l *Loader) Load(root string) (domain.Config, error) {
	root = filepath.Clean(root)
	cfg := domain.DefaultConfig(root)
	path := filepath.Join(root, domain.ConfigFileName)

	file, found, err := l.read(path)
	if err != nil {
		return domain.Config{}, err
	}
	if found {
		if err := apply(&cfg, file, path); err != nil {
			return domain.Config{}, err
		}
		l.Logger.Debug("loaded " + path)
	}

	if tool := l.Getenv(domain.ToolEnvVar); tool != "" {
		cfg.ToolPath = expandHome(tool)
	}
	if mode := l.Getenv(domain.OutputEnvVar); mode != "" {
		if !domain.ValidOutputMode(mode) {
			return domain.Config{}, zerr.With(
				zerr.Wrap(domain.ErrConfigParseFailed, "invalid output mode"),
				domain.OutputEnvVar, mode,
			)
		}
		cfg.OutputMode = mode
	}

	return cfg, nil
}

func (l *Loader) read(path string) (*Smakefile, bool, error) {
	data, err := l.FS.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Join(
			domain.ErrConfigReadFailed,
			zerr.With(zerr.Wrap(err, "read "+domain.ConfigFileName), "path", path),
		)
	}

	var file Smakefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, false, errors.Join(
			domain.ErrConfigParseFailed,
			zerr.With(zerr.Wrap(err, "parse "+domain.ConfigFileName), "path", path),
		)
	}

	return &file, true, nil
}

func apply(cfg *domain.Config, file *Smakefile, path string) error {
	configDir := filepath.Dir(path)

	if file.Root != "" {
		cfg.Root = resolvePath(configDir, file.Root)
	}

	if file.Tool != "" {
		tool := expandHome(file.Tool)
		// Bare names are looked up on PATH; anything with a separator is a path.
		if strings.ContainsRune(tool, filepath.Separator) {
			tool = resolvePath(configDir, tool)
		}
		cfg.ToolPath = tool
	}

	if file.Output != "" {
		if !domain.ValidOutputMode(file.Output) {
			return invalid(path, "output", file.Output)
		}
		cfg.OutputMode = file.Output
	}

	if file.WaitDelay != "" {
		d, err := time.ParseDuration(file.WaitDelay)
		if err != nil || d <= 0 {
			return invalid(path, "wait_delay", file.WaitDelay)
		}
		cfg.WaitDelay = d
	}

	if file.LogDepsGraph != nil {
		cfg.LogDepsGraph = *file.LogDepsGraph
	}

	return nil
}

func invalid(path, field, value string) error {
	err := zerr.Wrap(domain.ErrConfigParseFailed, "invalid "+field)
	err = zerr.With(err, "path", path)
	return zerr.With(err, field, value)
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
