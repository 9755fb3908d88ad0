package ports

import "go.trai.ch/smake/internal/core/domain"

// ConfigLoader defines the interface for loading run settings.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration of the project rooted at root.
	// A missing config file yields domain.DefaultConfig(root).
	Load(root string) (domain.Config, error)

	// DiscoverRoot walks up from cwd to find the directory containing smake.yaml.
	// It returns cwd when no config file exists.
	DiscoverRoot(cwd string) (string, error)
}
