package attach

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestTriggerPathsOrder(t *testing.T) {
	paths := triggerPaths(123, "/tmp")
	if len(paths) != 2 {
		t.Fatalf("expected 2 candidate paths, got %d", len(paths))
	}
	if paths[0] != "/proc/123/cwd/.attach_pid123" {
		t.Errorf("expected cwd-relative path first, got %q", paths[0])
	}
	if paths[1] != "/tmp/.attach_pid123" {
		t.Errorf("expected shared temp path second, got %q", paths[1])
	}
}

func TestCreateTriggerFilePrefersTargetCwd(t *testing.T) {
	tmp := t.TempDir()
	pid := os.Getpid()

	path, err := createTriggerFile(pid, tmp)
	if err != nil {
		t.Fatalf("createTriggerFile: %v", err)
	}
	defer os.Remove(path)

	expected := filepath.Join("/proc", strconv.Itoa(pid), "cwd", fmt.Sprintf(".attach_pid%d", pid))
	if path != expected {
		t.Errorf("expected trigger at %q, got %q", expected, path)
	}

	// The file is visible through the process's working directory.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(wd, fmt.Sprintf(".attach_pid%d", pid))); err != nil {
		t.Errorf("trigger file not visible in working directory: %v", err)
	}
}

func TestCreateTriggerFileFallsBackToTmp(t *testing.T) {
	tmp := t.TempDir()

	// pid 0 has no procfs entry, so the cwd-relative location cannot be
	// created and the shared temp location is used.
	path, err := createTriggerFile(0, tmp)
	if err != nil {
		t.Fatalf("createTriggerFile: %v", err)
	}
	if path != filepath.Join(tmp, ".attach_pid0") {
		t.Errorf("expected fallback to %q, got %q", filepath.Join(tmp, ".attach_pid0"), path)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat trigger file: %v", err)
	}
	if !fi.Mode().IsRegular() || fi.Size() != 0 {
		t.Errorf("expected empty regular file, got mode %v size %d", fi.Mode(), fi.Size())
	}
}

func TestCreateTriggerFileBothLocationsFail(t *testing.T) {
	// An unwritable temp dir leaves no usable location for pid 0.
	if _, err := createTriggerFile(0, "/nonexistent-jattach-test"); err == nil {
		t.Fatalf("expected error when both locations fail")
	}
}
