// Package cli handles command-line parsing and dispatch for create-solana-starter.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"

	"github.com/NielsdaWheelz/create-solana-starter/internal/commands"
	"github.com/NielsdaWheelz/create-solana-starter/internal/config"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
	"github.com/NielsdaWheelz/create-solana-starter/internal/fs"
	"github.com/NielsdaWheelz/create-solana-starter/internal/paths"
	"github.com/NielsdaWheelz/create-solana-starter/internal/version"
)

// TemplateAnchor is the only supported project template.
const TemplateAnchor = "anchor"

const usageText = `create-solana-starter - scaffold an Anchor program with a local validator and frontend

usage: create-solana-starter <app-name> [--template anchor [--docker]] [options]
       create-solana-starter --doctor [--docker]

creates <app-name>/ in the current directory: an Anchor workspace with a
generated wallet, the built program and its resolved address, a watcher and
verifier script, and a starter frontend in <app-name>/app.

options:
  --template <name>   project template; only "anchor" is supported
  --docker            run the toolchain inside a Docker sandbox
                      (needs --template anchor, except with --doctor)
  --program <name>    program stub: basic or data (default: config program)
  --keep-sandbox      leave the Docker sandbox running if a step fails
  --doctor            check the required tools and show resolved settings
  --verbose           debug logging
  -h, --help          show this help
  -V, --version       show version

examples:
  create-solana-starter my-app
  create-solana-starter my-app --template anchor --docker
`

type options struct {
	template    string
	docker      bool
	program     string
	keepSandbox bool
	doctor      bool
	verbose     bool
	help        bool
	version     bool
	args        []string
}

// Run parses arguments and runs the requested command.
// Returns an error if the command fails; the caller should print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprint(stdout, usageText)
		return err
	}
	if opts.help {
		fmt.Fprint(stdout, usageText)
		return nil
	}
	if opts.version {
		fmt.Fprintf(stdout, "create-solana-starter %s\n", version.Version)
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to resolve home directory", err)
	}
	dirs := paths.ResolveDirs(paths.OSEnv{}, home)

	fsys := fs.NewRealFS()
	cfg, err := config.Load(fsys, dirs.ConfigDir, env.ToMap(os.Environ()))
	if err != nil {
		return err
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cr := exec.NewRealRunner()

	if opts.doctor {
		return commands.Doctor(ctx, cr, dirs, cfg, opts.docker, stdout)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}

	_, err = commands.Create(ctx, cr, fsys, cwd, commands.CreateOpts{
		AppName: opts.args[0],
		Docker:  opts.docker,
		Config:  cfg,
		DataDir: dirs.DataDir,
	}, stdout, logger)
	return err
}

// parseArgs parses the flags and checks their combination. Every returned
// error is E_USAGE.
func parseArgs(args []string) (options, error) {
	var opts options

	flagSet := pflag.NewFlagSet("create-solana-starter", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.template, "template", "", "project template")
	flagSet.BoolVar(&opts.docker, "docker", false, "run inside a Docker sandbox")
	flagSet.StringVar(&opts.program, "program", "", "program stub variant")
	flagSet.BoolVar(&opts.keepSandbox, "keep-sandbox", false, "keep the sandbox on failure")
	flagSet.BoolVar(&opts.doctor, "doctor", false, "check prerequisites")
	flagSet.BoolVar(&opts.verbose, "verbose", false, "debug logging")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")
	flagSet.BoolVarP(&opts.version, "version", "V", false, "show version")

	if err := flagSet.Parse(args); err != nil {
		return opts, errors.Wrap(errors.EUsage, "invalid flags: "+err.Error(), err)
	}
	if opts.help || opts.version {
		return opts, nil
	}
	opts.args = flagSet.Args()

	if opts.template != "" && opts.template != TemplateAnchor {
		return opts, errors.New(errors.EUsage, fmt.Sprintf("unsupported template: %s (only %q is supported)", opts.template, TemplateAnchor))
	}
	if opts.doctor {
		if len(opts.args) > 0 {
			return opts, errors.New(errors.EUsage, "--doctor takes no app name")
		}
		return opts, nil
	}
	if len(opts.args) == 0 {
		return opts, errors.New(errors.EUsage, "app name is required")
	}
	if len(opts.args) > 1 {
		return opts, errors.New(errors.EUsage, fmt.Sprintf("unexpected argument: %s", opts.args[1]))
	}
	if opts.docker && opts.template != TemplateAnchor {
		return opts, errors.New(errors.EUsage, "--docker requires --template "+TemplateAnchor)
	}
	return opts, nil
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, opts options) {
	if opts.program != "" {
		cfg.Program = opts.program
	}
	if opts.keepSandbox {
		cfg.Sandbox.KeepOnFailure = true
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
}
