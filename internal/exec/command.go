package exec

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/NielsdaWheelz/create-solana-starter/internal/core"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

// Command is one external tool invocation.
type Command struct {
	Name string
	Args []string
	Env  map[string]string // extra environment variables (overlay)
}

// Cmd builds a Command from a name and its arguments.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// WithEnv returns a copy of c with key=value added to its environment overlay.
func (c Command) WithEnv(key, value string) Command {
	env := make(map[string]string, len(c.Env)+1)
	for k, v := range c.Env {
		env[k] = v
	}
	env[key] = value
	c.Env = env
	return c
}

// Argv returns the name followed by the arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a shell line. Tokens that need quoting are
// quoted; env overlay entries are prefixed in key order.
func (c Command) String() string {
	var parts []string
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+core.ShellQuote(c.Env[k]))
	}
	parts = append(parts, core.ShellJoin(c.Argv()))
	return strings.Join(parts, " ")
}

// RunChecked runs cmd and streams its combined output to out before
// returning. A non-zero exit is an E_COMMAND_FAILED error carrying the command
// line, exit code and output in its details; a process that cannot start is
// E_COMMAND_START_FAILED, or E_INTERRUPTED when ctx was canceled. There are no
// retries.
func RunChecked(ctx context.Context, cr CommandRunner, cmd Command, opts RunOpts, out io.Writer, logger *slog.Logger) (CmdResult, error) {
	if len(cmd.Env) > 0 {
		merged := make(map[string]string, len(opts.Env)+len(cmd.Env))
		for k, v := range opts.Env {
			merged[k] = v
		}
		for k, v := range cmd.Env {
			merged[k] = v
		}
		opts.Env = merged
	}

	line := cmd.String()
	logger.Debug("running command", "command", line, "dir", opts.Dir)

	result, err := cr.Run(ctx, cmd.Name, cmd.Args, opts)
	if out != nil && result.Combined != "" {
		io.WriteString(out, result.Combined)
		if !strings.HasSuffix(result.Combined, "\n") {
			io.WriteString(out, "\n")
		}
	}
	if err != nil && ctx.Err() != nil {
		return result, errors.WrapWithDetails(
			errors.EInterrupted,
			fmt.Sprintf("interrupted while running %s", cmd.Name),
			ctx.Err(),
			map[string]string{"command": line},
		)
	}
	if err != nil {
		return result, errors.WrapWithDetails(
			errors.ECommandStartFailed,
			fmt.Sprintf("failed to run %s", cmd.Name),
			err,
			map[string]string{"command": line},
		)
	}
	if !result.Succeeded() {
		return result, errors.NewWithDetails(
			errors.ECommandFailed,
			fmt.Sprintf("command exited with status %d", result.ExitCode),
			map[string]string{
				"command":   line,
				"exit_code": fmt.Sprintf("%d", result.ExitCode),
				"output":    result.Combined,
			},
		)
	}
	return result, nil
}
