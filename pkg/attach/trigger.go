package attach

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// triggerPaths returns the candidate locations of the attach trigger
// file, in preference order. The location inside the target's own
// working directory (reached through procfs) is tried first because the
// JVM can verify it was written by a process with the same filesystem
// view; the shared temp directory is the fallback.
func triggerPaths(pid int, tmpDir string) []string {
	name := fmt.Sprintf(".attach_pid%d", pid)
	return []string{
		filepath.Join("/proc", strconv.Itoa(pid), "cwd", name),
		filepath.Join(tmpDir, name),
	}
}

// createTriggerFile creates the empty file HotSpot checks for when
// deciding whether a SIGQUIT is an attach request. It returns the path
// that was created; the caller removes it when activation is over.
//
// HotSpot matches the exact file name, so concurrent attach attempts
// against the same pid share one trigger path and may race on it.
func createTriggerFile(pid int, tmpDir string) (string, error) {
	var firstErr error
	for _, path := range triggerPaths(pid, tmpDir) {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0660)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		f.Close()
		return path, nil
	}
	return "", firstErr
}
