package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/smake/internal/core/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		isTTY bool
		ci    string
		want  string
	}{
		{name: "terminal", isTTY: true, want: domain.OutputTUI},
		{name: "terminal with CI=true", isTTY: true, ci: "true", want: domain.OutputLinear},
		{name: "terminal with CI=1", isTTY: true, ci: "1", want: domain.OutputLinear},
		{name: "terminal with CI=false", isTTY: true, ci: "false", want: domain.OutputTUI},
		{name: "pipe", isTTY: false, want: domain.OutputLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect(tt.isTTY, tt.ci))
		})
	}
}
