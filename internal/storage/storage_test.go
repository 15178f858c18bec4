package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diabeater-backend/internal/apperror"
)

func TestSaveInstallerRejectsNonAPK(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	_, err := s.SaveInstaller("app.zip", 10, bytes.NewReader([]byte("0123456789")))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if s.InstallerExists() {
		t.Error("rejected upload left an installer behind")
	}
}

func TestSaveInstallerRejectsOversize(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	_, err := s.SaveInstaller("app.apk", MaxInstallerSize+1, strings.NewReader("x"))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestSaveInstallerRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewDiskStore(root)

	body := []byte("apk-bytes")
	path, err := s.SaveInstaller("DiaBeater-v2.APK", int64(len(body)), bytes.NewReader(body))
	if err != nil {
		t.Fatalf("SaveInstaller: %v", err)
	}
	if path != InstallerPath {
		t.Errorf("path = %q, want %q", path, InstallerPath)
	}

	stored, err := os.ReadFile(filepath.Join(root, InstallerPath))
	if err != nil {
		t.Fatalf("read stored installer: %v", err)
	}
	if !bytes.Equal(stored, body) {
		t.Errorf("stored = %q", stored)
	}
	if !s.InstallerExists() {
		t.Error("InstallerExists = false after upload")
	}
}

func TestSaveInstallerReplacesPrevious(t *testing.T) {
	root := t.TempDir()
	s := NewDiskStore(root)

	if _, err := s.SaveInstaller("a.apk", 2, bytes.NewReader([]byte("v1"))); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveInstaller("b.apk", 2, bytes.NewReader([]byte("v2"))); err != nil {
		t.Fatal(err)
	}

	stored, _ := os.ReadFile(filepath.Join(root, InstallerPath))
	if string(stored) != "v2" {
		t.Errorf("stored = %q, want v2", stored)
	}
}

func TestRemoveInstaller(t *testing.T) {
	s := NewDiskStore(t.TempDir())

	// Removing a never-uploaded installer is not an error.
	if err := s.RemoveInstaller(); err != nil {
		t.Fatalf("RemoveInstaller on empty store: %v", err)
	}

	if _, err := s.SaveInstaller("a.apk", 2, bytes.NewReader([]byte("v1"))); err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveInstaller(); err != nil {
		t.Fatalf("RemoveInstaller: %v", err)
	}
	if s.InstallerExists() {
		t.Error("installer still present after removal")
	}
}
