package opener

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"laserlab/internal/ports"
)

var _ ports.FileOpener = (*Opener)(nil)

// Opener implements ports.FileOpener
type Opener struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// New creates an opener for the running platform
func New() *Opener {
	return &Opener{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// Edit opens path in the user's preferred editor
func (o *Opener) Edit(path string) error {
	cmd, err := o.EditorCommand(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// View opens path with the platform's default viewer
func (o *Opener) View(path string) error {
	cmd, err := o.ViewerCommand(path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// EditorCommand returns an exec.Cmd attached to the terminal that edits path.
// This is useful for integrating with bubbletea's ExecProcess.
func (o *Opener) EditorCommand(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// ViewerCommand returns the command opening path with the desktop default
func (o *Opener) ViewerCommand(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", path), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}

func (o *Opener) findEditor() string {
	if editor := o.getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := o.getenv("VISUAL"); visual != "" {
		return visual
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
