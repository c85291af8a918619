// Package backend runs the scaffolding commands either on the host or inside
// a disposable Docker container, behind one interface.
//
// Callers thread an ExecContext value through their steps: Enter and Leave
// return new contexts and never mutate the receiver, so the current working
// location is always explicit at each call site.
package backend

import (
	"context"
	"path"
	"path/filepath"

	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
)

// Kind identifies the execution environment.
type Kind string

const (
	KindLocal     Kind = "local"
	KindContainer Kind = "container"
)

// ExecContext is the location commands run in and files are written to.
//
// HostDir is the host directory for the context. For the container backend it
// is the host staging directory that mirrors SandboxDir, which is the working
// directory inside the sandbox. SandboxID names the sandbox; it is empty for
// local contexts.
type ExecContext struct {
	Kind       Kind
	HostDir    string
	SandboxDir string
	SandboxID  string
}

// Enter returns the context for the subdirectory sub.
func (ec ExecContext) Enter(sub string) ExecContext {
	next := ec
	next.HostDir = filepath.Join(ec.HostDir, filepath.FromSlash(sub))
	if ec.SandboxDir != "" {
		next.SandboxDir = path.Join(ec.SandboxDir, sub)
	}
	return next
}

// Leave returns the context for the parent directory.
func (ec ExecContext) Leave() ExecContext {
	next := ec
	next.HostDir = filepath.Dir(ec.HostDir)
	if ec.SandboxDir != "" {
		next.SandboxDir = path.Dir(ec.SandboxDir)
	}
	return next
}

// HostPath resolves a slash-separated path relative to the context on the host.
func (ec ExecContext) HostPath(rel string) string {
	return filepath.Join(ec.HostDir, filepath.FromSlash(rel))
}

// SandboxPath resolves a slash-separated path relative to the context inside
// the sandbox. Empty for local contexts.
func (ec ExecContext) SandboxPath(rel string) string {
	if ec.SandboxDir == "" {
		return ""
	}
	return path.Join(ec.SandboxDir, rel)
}

// WorkDir is where commands in this context run: the sandbox directory for
// container contexts, the host directory otherwise.
func (ec ExecContext) WorkDir() string {
	if ec.Kind == KindContainer {
		return ec.SandboxDir
	}
	return ec.HostDir
}

// Backend runs commands and moves files for one scaffolding run.
type Backend interface {
	// Kind reports which environment this backend drives.
	Kind() Kind

	// Root returns the context the run starts in.
	Root() ExecContext

	// Run executes cmd in ec, streaming its output. A non-zero exit is an
	// E_COMMAND_FAILED error.
	Run(ctx context.Context, ec ExecContext, cmd exec.Command) (exec.CmdResult, error)

	// StageIn copies ec.HostPath(rel) into the execution environment at the
	// matching path. The file must already exist on the host.
	StageIn(ctx context.Context, ec ExecContext, rel string) error

	// StageOut copies rel (a file or directory, "." for the context itself)
	// from the execution environment to the matching host path, merging into
	// existing host directories.
	StageOut(ctx context.Context, ec ExecContext, rel string) error

	// Teardown releases the execution environment. Safe to call more than once.
	Teardown(ctx context.Context) error
}
