package ports

// FileOpener hands exported files to external programs
type FileOpener interface {
	// Edit opens path in the user's editor and waits for it to exit
	Edit(path string) error

	// View opens path with the desktop's default application
	View(path string) error
}
