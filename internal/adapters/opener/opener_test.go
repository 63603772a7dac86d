package opener

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpener(goos string, env map[string]string, installed ...string) *Opener {
	return &Opener{
		goos:   goos,
		getenv: func(k string) string { return env[k] },
		lookPath: func(name string) (string, error) {
			for _, n := range installed {
				if n == name {
					return "/usr/bin/" + name, nil
				}
			}
			return "", errors.New("not found")
		},
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		installed []string
		wantPath  string
		wantErr   bool
	}{
		{name: "editor env", env: map[string]string{"EDITOR": "hx", "VISUAL": "code"}, wantPath: "hx"},
		{name: "visual env", env: map[string]string{"VISUAL": "code"}, wantPath: "code"},
		{name: "installed fallback", installed: []string{"nano"}, wantPath: "/usr/bin/nano"},
		{name: "first installed wins", installed: []string{"vi", "nvim"}, wantPath: "/usr/bin/nvim"},
		{name: "nothing available", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := testOpener("linux", tt.env, tt.installed...).EditorCommand("/tmp/rows.csv")
			if tt.wantErr {
				assert.ErrorContains(t, err, "no editor found")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantPath, "/tmp/rows.csv"}, cmd.Args)
		})
	}
}

func TestViewerCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantArgs []string
		wantErr  bool
	}{
		{goos: "darwin", wantArgs: []string{"open", "bench.png"}},
		{goos: "linux", wantArgs: []string{"xdg-open", "bench.png"}},
		{goos: "windows", wantArgs: []string{"cmd", "/c", "start", "", "bench.png"}},
		{goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, err := testOpener(tt.goos, nil).ViewerCommand("bench.png")
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported operating system")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}
