package commands

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/NielsdaWheelz/create-solana-starter/internal/backend"
	"github.com/NielsdaWheelz/create-solana-starter/internal/config"
	"github.com/NielsdaWheelz/create-solana-starter/internal/core"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
	"github.com/NielsdaWheelz/create-solana-starter/internal/fs"
	"github.com/NielsdaWheelz/create-solana-starter/internal/lock"
	"github.com/NielsdaWheelz/create-solana-starter/internal/render"
	"github.com/NielsdaWheelz/create-solana-starter/internal/scaffold"
	"github.com/NielsdaWheelz/create-solana-starter/internal/workflow"
)

// CreateOpts holds options for the create command.
type CreateOpts struct {
	// AppName is the project name as typed.
	AppName string

	// Docker selects the container backend.
	Docker bool

	// Config is the validated configuration with flags applied.
	Config config.Config

	// DataDir holds sandbox lock files.
	DataDir string

	// SkipPreflight skips the tool checks.
	SkipPreflight bool
}

// Create scaffolds a new project under cwd.
//
// Nothing is created until the app name and config are checked, an existing
// <cwd>/<app-name> is refused and the required tools are probed. The
// container backend additionally holds the sandbox lock for the whole run.
func Create(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, cwd string, opts CreateOpts, stdout io.Writer, logger *slog.Logger) (workflow.Result, error) {
	if err := core.ValidateAppName(opts.AppName); err != nil {
		return workflow.Result{}, err
	}
	variant, err := scaffold.ParseProgramVariant(opts.Config.Program)
	if err != nil {
		return workflow.Result{}, err
	}

	projectDir := filepath.Join(cwd, opts.AppName)
	exists, err := fs.Exists(fsys, projectDir)
	if err != nil {
		return workflow.Result{}, errors.WrapWithDetails(errors.EInternal, "failed to check project directory", err,
			map[string]string{"path": projectDir})
	}
	if exists {
		return workflow.Result{}, errors.NewWithDetails(errors.EProjectExists,
			opts.AppName+" already exists in the current directory", map[string]string{"path": projectDir})
	}

	if !opts.SkipPreflight {
		tools, err := Preflight(ctx, cr, opts.Docker, opts.Config)
		if err != nil {
			return workflow.Result{}, err
		}
		for _, t := range tools {
			logger.Debug("tool found", "tool", t.Name, "version", t.Version)
		}
	}

	var b backend.Backend
	if opts.Docker {
		unlock, err := lock.NewSandboxLock(opts.DataDir).Lock(opts.Config.Sandbox.Name, opts.AppName)
		if err != nil {
			return workflow.Result{}, err
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Warn("failed to release sandbox lock", "error", err)
			}
		}()

		sc := opts.Config.Sandbox
		c, err := backend.NewContainer(ctx, cr, fsys, backend.ContainerOpts{
			Name:      sc.Name,
			Image:     sc.Image,
			WorkDir:   sc.WorkDir,
			HostDir:   cwd,
			DockerBin: sc.DockerBin,
		}, stdout, logger)
		if err != nil {
			return workflow.Result{}, err
		}
		logger.Debug("sandbox ready", "id", c.ID())
		b = c
	} else {
		b = backend.NewLocal(cr, cwd, stdout, logger)
	}

	logger.Info("scaffolding project", "app", opts.AppName, "backend", string(b.Kind()), "program", string(variant))
	wf := workflow.New(b, fsys, render.NewPrinter(stdout), logger)
	res, err := wf.Run(ctx, workflow.Options{
		AppName:              opts.AppName,
		Variant:              variant,
		FrontendURL:          opts.Config.Frontend.URL,
		FrontendDir:          opts.Config.Frontend.Dir,
		KeepSandboxOnFailure: opts.Config.Sandbox.KeepOnFailure,
	})
	for _, w := range res.Warnings {
		logger.Warn("completed with warning", "code", w.Code, "message", w.Message)
	}
	return res, err
}
