package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/logger"
	"github.com/ewhitmore/focal/internal/storage"
)

// lockPath returns the lockfile location next to the database file. Postgres
// configs have no local directory to lock, so this returns "".
func lockPath(configPath string) string {
	if storage.IsPostgresConnString(configPath) {
		return ""
	}
	return filepath.Join(filepath.Dir(configPath), constants.LockfileName)
}

// acquireLock writes the current PID to the lockfile. A lock held by a live
// process fails the acquire; a stale lock from a crashed run is replaced.
func acquireLock(configPath string) (release func(), err error) {
	path := lockPath(configPath)
	if path == "" {
		return func() {}, nil
	}

	if pid, ok := readLockPID(path); ok {
		if processAlive(pid) {
			return nil, fmt.Errorf("another focal instance is running (PID %d); close it or remove %s", pid, path)
		}
		logger.Warn("Replacing stale lockfile", "path", path, "pid", pid)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove lockfile", "path", path, "error", err)
		}
	}, nil
}

func readLockPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// processAlive checks the process table rather than signalling, which works
// the same on every platform go-ps supports.
func processAlive(pid int) bool {
	proc, err := ps.FindProcess(pid)
	return err == nil && proc != nil
}
