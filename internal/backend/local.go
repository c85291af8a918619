package backend

import (
	"context"
	"io"
	"log/slog"

	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
)

// Local runs commands directly on the host. Files are already where commands
// can see them, so staging and teardown do nothing.
type Local struct {
	cr     exec.CommandRunner
	root   string
	out    io.Writer
	logger *slog.Logger
}

// NewLocal creates a backend rooted at hostDir. Command output is streamed to out.
func NewLocal(cr exec.CommandRunner, hostDir string, out io.Writer, logger *slog.Logger) *Local {
	return &Local{cr: cr, root: hostDir, out: out, logger: logger}
}

func (l *Local) Kind() Kind { return KindLocal }

func (l *Local) Root() ExecContext {
	return ExecContext{Kind: KindLocal, HostDir: l.root}
}

func (l *Local) Run(ctx context.Context, ec ExecContext, cmd exec.Command) (exec.CmdResult, error) {
	return exec.RunChecked(ctx, l.cr, cmd, exec.RunOpts{Dir: ec.WorkDir()}, l.out, l.logger)
}

func (l *Local) StageIn(context.Context, ExecContext, string) error { return nil }
func (l *Local) StageOut(context.Context, ExecContext, string) error { return nil }
func (l *Local) Teardown(context.Context) error { return nil }
