package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"diabeater-backend/internal/apperror"
)

// MaxInstallerSize caps installer uploads at 100 MB.
const MaxInstallerSize = 100 << 20

// InstallerPath is where the hosted installer lives under the asset dir,
// and the path the content document points at when self-hosting.
const InstallerPath = "apk/diabeater.apk"

// Store persists the hosted installer binary.
type Store interface {
	SaveInstaller(name string, size int64, r io.Reader) (string, error)
	RemoveInstaller() error
	InstallerExists() bool
}

// DiskStore keeps the installer on the local filesystem under a fixed
// path, so a re-upload atomically replaces the previous build.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// SaveInstaller validates and writes the uploaded installer, returning the
// path to store in the content document.
func (s *DiskStore) SaveInstaller(name string, size int64, r io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(name), ".apk") {
		return "", apperror.ValidationFailed("file", "Please select an APK file (.apk extension).")
	}
	if size <= 0 || size > MaxInstallerSize {
		return "", apperror.ValidationFailed("file", "File size must be less than 100MB.")
	}

	dst := filepath.Join(s.root, InstallerPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create installer dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "upload-*.apk")
	if err != nil {
		return "", fmt.Errorf("create temp installer: %w", err)
	}
	defer os.Remove(tmp.Name())

	// LimitReader guards against a size header smaller than the body.
	n, err := io.Copy(tmp, io.LimitReader(r, MaxInstallerSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write installer: %w", err)
	}
	if n > MaxInstallerSize {
		return "", apperror.ValidationFailed("file", "File size must be less than 100MB.")
	}

	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("publish installer: %w", err)
	}
	return InstallerPath, nil
}

func (s *DiskStore) RemoveInstaller() error {
	err := os.Remove(filepath.Join(s.root, InstallerPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove installer: %w", err)
	}
	return nil
}

func (s *DiskStore) InstallerExists() bool {
	info, err := os.Stat(filepath.Join(s.root, InstallerPath))
	return err == nil && !info.IsDir()
}
