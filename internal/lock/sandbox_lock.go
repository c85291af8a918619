// Package lock keeps two runs from driving the same named sandbox at once.
package lock

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

// DefaultStaleAfter is how old a lock may get before it is reclaimed even
// when its owner still looks alive.
const DefaultStaleAfter = 2 * time.Hour

// LockInfo contains the metadata stored in a lock file.
type LockInfo struct {
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
	App       string    `json:"app,omitempty"`
}

// ErrLocked indicates a live lock is held by another run.
type ErrLocked struct {
	Sandbox string
	Info    *LockInfo // nil if lock file is unreadable
	Path    string
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		return fmt.Sprintf("sandbox %s is in use by pid %d since %s (lock file: %s)",
			e.Sandbox, e.Info.PID, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("sandbox %s is in use (lock file: %s)", e.Sandbox, e.Path)
}

// SandboxLock guards sandbox names with O_EXCL lock files under DataDir.
type SandboxLock struct {
	DataDir    string
	StaleAfter time.Duration
	Now        func() time.Time
	IsPIDAlive func(pid int) bool
}

// NewSandboxLock returns a SandboxLock with default staleness and clock.
func NewSandboxLock(dataDir string) SandboxLock {
	return SandboxLock{
		DataDir:    dataDir,
		StaleAfter: DefaultStaleAfter,
		Now:        time.Now,
		IsPIDAlive: isPIDAlive,
	}
}

// Path returns the lock file for sandbox.
func (l SandboxLock) Path(sandbox string) string {
	return filepath.Join(l.DataDir, "sandboxes", sandbox+".lock")
}

// Lock acquires the lock for sandbox and returns an idempotent unlock
// function. app is recorded for diagnostics. A lock whose owner is gone, or
// which is older than StaleAfter, is reclaimed. A live lock yields
// E_SANDBOX_LOCKED wrapping *ErrLocked.
func (l SandboxLock) Lock(sandbox, app string) (unlock func() error, err error) {
	path := l.Path(sandbox)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.WrapWithDetails(errors.EWriteFailed, "failed to create lock directory", err,
			map[string]string{"path": filepath.Dir(path)})
	}

	const maxAttempts = 3
	for attempt := 0; attempt < maxAttempts; attempt++ {
		created, err := l.create(path, app)
		if err != nil {
			return nil, err
		}
		if created {
			return func() error {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return err
				}
				return nil
			}, nil
		}

		info, reclaimable := l.inspect(path)
		if !reclaimable {
			return nil, l.locked(sandbox, path, info)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, l.locked(sandbox, path, info)
		}
	}
	return nil, l.locked(sandbox, path, nil)
}

// create writes a fresh lock file. It reports false when one already exists.
func (l SandboxLock) create(path, app string) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapWithDetails(errors.EWriteFailed, "failed to create lock file", err,
			map[string]string{"path": path})
	}

	data, _ := json.Marshal(LockInfo{PID: os.Getpid(), CreatedAt: l.Now(), App: app})
	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(path)
		return false, errors.WrapWithDetails(errors.EWriteFailed, "failed to write lock file", writeErr,
			map[string]string{"path": path})
	}
	return true, nil
}

// inspect reads an existing lock and decides whether it may be reclaimed.
// Unreadable lock files fall back to their mtime.
func (l SandboxLock) inspect(path string) (*LockInfo, bool) {
	data, err := os.ReadFile(path)
	if err == nil {
		var info LockInfo
		if json.Unmarshal(data, &info) == nil {
			stale := !l.IsPIDAlive(info.PID) || l.Now().Sub(info.CreatedAt) > l.StaleAfter
			return &info, stale
		}
	}

	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, true
	}
	if err != nil {
		return nil, false
	}
	return nil, l.Now().Sub(stat.ModTime()) > l.StaleAfter
}

func (l SandboxLock) locked(sandbox, path string, info *LockInfo) error {
	details := map[string]string{"sandbox": sandbox, "lock_file": path}
	if info != nil {
		details["pid"] = strconv.Itoa(info.PID)
	}
	return errors.WrapWithDetails(errors.ESandboxLocked,
		"another run is using sandbox "+sandbox,
		&ErrLocked{Sandbox: sandbox, Info: info, Path: path},
		details)
}

// isPIDAlive uses signal 0, which checks for existence without delivering
// anything. EPERM means the process exists under another user.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || stderrors.Is(err, syscall.EPERM)
}
