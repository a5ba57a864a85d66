package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "# bash completion for ndsmon"},
		{"zsh", "#compdef ndsmon"},
		{"fish", "# fish completion for ndsmon"},
		{"powershell", "# powershell completion for ndsmon"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := executeRoot(t, "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	_, err := executeRoot(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestCompletion_NoArgs(t *testing.T) {
	_, err := executeRoot(t, "completion")
	assert.Error(t, err)
}
