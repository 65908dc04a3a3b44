package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the drillbook home directory.
	DefaultDirName = ".drillbook"

	// UploadsDirName is the subdirectory holding uploaded PDFs, one job
	// directory per upload.
	UploadsDirName = "uploads"

	// ImagesDirName is the subdirectory holding diagram images written
	// by the decomposition service.
	ImagesDirName = "images"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the drillbook home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.drillbook).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// UploadsPath returns the path to the uploads directory.
func (d *Dir) UploadsPath() string {
	return filepath.Join(d.path, UploadsDirName)
}

// ImagesPath returns the path to the decomposition images directory.
func (d *Dir) ImagesPath() string {
	return filepath.Join(d.path, ImagesDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.UploadsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if err := os.MkdirAll(d.ImagesPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// PlanImagesDir returns the directory for a plan's extracted diagram
// images.
func (d *Dir) PlanImagesDir(planID string) string {
	return filepath.Join(d.ImagesPath(), planID)
}

// EnsurePlanImagesDir creates the image directory for a plan.
func (d *Dir) EnsurePlanImagesDir(planID string) error {
	return os.MkdirAll(d.PlanImagesDir(planID), 0o755)
}
