package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"laserlab/internal/application"
)

func TestRenderStatusBar(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{status: "", want: ""},
		{status: application.StatusSaving, want: application.StatusSaving},
		{status: application.StatusSaveError, want: application.StatusSaveError},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := RenderStatusBar(tt.status)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}
