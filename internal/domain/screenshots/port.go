package screenshots

// Locator port (scan a folder for screenshots)
type Locator interface {
	Scan(dir string) ([]ImageFileInfo, error)
}
