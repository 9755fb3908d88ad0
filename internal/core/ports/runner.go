// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/smake/internal/core/domain"
)

// ProcessRunner spawns the external tool and streams its output.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ProcessRunner interface {
	// Run starts exactly one subprocess for cmd.
	//
	// If input is non-nil it is written in full to the process stdin, which is
	// then closed. A nil input closes stdin immediately.
	//
	// The returned channel yields one EventLine per line of combined
	// stdout/stderr, in the order produced, followed by a single EventDone.
	// The channel is closed after EventDone.
	//
	// A process that cannot be started returns domain.ErrSpawnFailed and no channel.
	Run(ctx context.Context, cmd domain.CommandSpec, input *string) (<-chan domain.StreamEvent, error)
}
