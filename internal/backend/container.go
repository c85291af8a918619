package backend

import (
	"context"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
	"github.com/NielsdaWheelz/create-solana-starter/internal/fs"
)

// DefaultDockerBin is the container runtime CLI.
const DefaultDockerBin = "docker"

// ContainerOpts configures a sandbox.
type ContainerOpts struct {
	// Name is the logical sandbox name. A sandbox with this name left over
	// from an earlier run is removed before a new one starts.
	Name string
	// Image is the image providing anchor, solana, node and git.
	Image string
	// WorkDir is the working directory inside the sandbox.
	WorkDir string
	// HostDir is the host directory that mirrors WorkDir.
	HostDir string
	// DockerBin overrides the runtime CLI (default "docker").
	DockerBin string
}

// Container runs commands inside a long-lived Docker container created for a
// single scaffolding run.
type Container struct {
	cr     exec.CommandRunner
	fsys   fs.FS
	opts   ContainerOpts
	id     string
	out    io.Writer
	logger *slog.Logger
	torn   bool
}

// NewContainer force-removes any sandbox named opts.Name, then starts a fresh
// one that idles until Teardown. The removal tolerates "no such container";
// it only exists to clear a previous crashed or abandoned run.
func NewContainer(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, opts ContainerOpts, out io.Writer, logger *slog.Logger) (*Container, error) {
	if opts.Name == "" || opts.Image == "" || opts.WorkDir == "" {
		return nil, errors.New(errors.EInvalidConfig, "sandbox name, image and workdir are required")
	}
	if !path.IsAbs(opts.WorkDir) {
		return nil, errors.New(errors.EInvalidConfig, "sandbox workdir must be absolute: "+opts.WorkDir)
	}
	if opts.DockerBin == "" {
		opts.DockerBin = DefaultDockerBin
	}
	logger = logger.With("sandbox", opts.Name)

	c := &Container{cr: cr, fsys: fsys, opts: opts, out: out, logger: logger}

	if err := c.removeStale(ctx); err != nil {
		return nil, err
	}

	res, err := c.docker(ctx, nil, "run", "-d",
		"--name", opts.Name,
		"-w", opts.WorkDir,
		opts.Image,
		"sleep", "infinity",
	)
	if err != nil {
		return nil, sandboxError("failed to start sandbox", err, opts.Name)
	}
	c.id = strings.TrimSpace(res.Stdout)
	logger.Info("sandbox started", "image", opts.Image, "id", shortID(c.id))
	return c, nil
}

// removeStale runs `docker rm -f <name>`. A non-zero exit means there was
// nothing to remove; only a runtime CLI that cannot start is fatal.
func (c *Container) removeStale(ctx context.Context) error {
	res, err := c.cr.Run(ctx, c.opts.DockerBin, []string{"rm", "-f", c.opts.Name}, exec.RunOpts{})
	if err != nil {
		return errors.WrapWithDetails(errors.ESandboxFailed, "container runtime unavailable", err,
			map[string]string{"command": c.opts.DockerBin + " rm -f " + c.opts.Name})
	}
	if res.Succeeded() {
		c.logger.Info("removed leftover sandbox")
	} else {
		c.logger.Debug("no leftover sandbox", "output", strings.TrimSpace(res.Combined))
	}
	return nil
}

func (c *Container) Kind() Kind { return KindContainer }

// ID returns the container ID reported by the runtime.
func (c *Container) ID() string { return c.id }

func (c *Container) Root() ExecContext {
	return ExecContext{
		Kind:       KindContainer,
		HostDir:    c.opts.HostDir,
		SandboxDir: c.opts.WorkDir,
		SandboxID:  c.opts.Name,
	}
}

// Run executes cmd with `docker exec -w <ec.SandboxDir>`, passing the
// command's env overlay as -e flags.
func (c *Container) Run(ctx context.Context, ec ExecContext, cmd exec.Command) (exec.CmdResult, error) {
	args := []string{"exec", "-w", ec.WorkDir()}
	keys := make([]string, 0, len(cmd.Env))
	for k := range cmd.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-e", k+"="+cmd.Env[k])
	}
	args = append(args, c.opts.Name)
	args = append(args, cmd.Argv()...)
	return c.docker(ctx, c.out, args...)
}

// StageIn creates the parent directory inside the sandbox and copies the host
// file over with `docker cp`.
func (c *Container) StageIn(ctx context.Context, ec ExecContext, rel string) error {
	src := ec.HostPath(rel)
	dst := ec.SandboxPath(rel)

	if _, err := c.docker(ctx, nil, "exec", c.opts.Name, "mkdir", "-p", path.Dir(dst)); err != nil {
		return sandboxError("failed to prepare sandbox path", err, c.opts.Name)
	}
	if _, err := c.docker(ctx, nil, "cp", src, c.opts.Name+":"+dst); err != nil {
		return sandboxError("failed to copy "+rel+" into sandbox", err, c.opts.Name)
	}
	c.logger.Debug("staged in", "host", src, "sandbox", dst)
	return nil
}

// StageOut copies a sandbox path into the parent of the matching host path.
// Copying into the parent merges directories with whatever was staged on the
// host already instead of nesting them.
func (c *Container) StageOut(ctx context.Context, ec ExecContext, rel string) error {
	src := ec.SandboxPath(rel)
	dst := ec.HostPath(rel)
	parent := filepath.Dir(dst)

	if err := c.fsys.MkdirAll(parent, 0755); err != nil {
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to create host directory", err,
			map[string]string{"path": parent})
	}
	if _, err := c.docker(ctx, nil, "cp", c.opts.Name+":"+src, parent); err != nil {
		return sandboxError("failed to copy "+rel+" out of sandbox", err, c.opts.Name)
	}
	c.logger.Debug("staged out", "sandbox", src, "host", dst)
	return nil
}

// Teardown force-removes the sandbox. Later calls are no-ops.
func (c *Container) Teardown(ctx context.Context) error {
	if c.torn {
		return nil
	}
	if _, err := c.docker(ctx, nil, "rm", "-f", c.opts.Name); err != nil {
		return sandboxError("failed to remove sandbox", err, c.opts.Name)
	}
	c.torn = true
	c.logger.Info("sandbox removed")
	return nil
}

func (c *Container) docker(ctx context.Context, out io.Writer, args ...string) (exec.CmdResult, error) {
	return exec.RunChecked(ctx, c.cr, exec.Cmd(c.opts.DockerBin, args...), exec.RunOpts{}, out, c.logger)
}

// sandboxError wraps err as E_SANDBOX_FAILED, carrying over the details
// (command, exit code, output) of a failed runtime call.
func sandboxError(msg string, err error, name string) error {
	details := map[string]string{"sandbox": name}
	if se, ok := errors.AsStarterError(err); ok {
		for k, v := range se.Details {
			details[k] = v
		}
		if se.Code == errors.ECommandFailed {
			msg += ": " + se.Msg
		}
	}
	return errors.WrapWithDetails(errors.ESandboxFailed, msg, err, details)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
