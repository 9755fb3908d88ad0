package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/smake/internal/adapters/detector"
	"go.trai.ch/smake/internal/core/domain"
)

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, domain.OutputLinear, detector.DetectEnvironment())
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name       string
		detected   string
		configured string
		want       string
	}{
		{name: "auto keeps tui", detected: domain.OutputTUI, configured: domain.OutputAuto, want: domain.OutputTUI},
		{name: "auto keeps linear", detected: domain.OutputLinear, configured: domain.OutputAuto, want: domain.OutputLinear},
		{name: "empty keeps detection", detected: domain.OutputTUI, configured: "", want: domain.OutputTUI},
		{name: "tui overrides", detected: domain.OutputLinear, configured: domain.OutputTUI, want: domain.OutputTUI},
		{name: "linear overrides", detected: domain.OutputTUI, configured: domain.OutputLinear, want: domain.OutputLinear},
		{name: "ci alias", detected: domain.OutputTUI, configured: "ci", want: domain.OutputLinear},
		{name: "unknown keeps detection", detected: domain.OutputLinear, configured: "fancy", want: domain.OutputLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.detected, tt.configured))
		})
	}
}
