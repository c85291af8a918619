package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

// stubRunner returns a fixed result for every call and records what it saw.
type stubRunner struct {
	result CmdResult
	err    error

	gotName string
	gotArgs []string
	gotOpts RunOpts
}

func (s *stubRunner) Run(_ context.Context, name string, args []string, opts RunOpts) (CmdResult, error) {
	s.gotName = name
	s.gotArgs = args
	s.gotOpts = opts
	return s.result, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"plain", Cmd("anchor", "build"), "anchor build"},
		{"no args", Cmd("ls"), "ls"},
		{"quoted arg", Cmd("git", "commit", "-m", "first commit"), "git commit -m 'first commit'"},
		{"empty arg", Cmd("echo", ""), "echo ''"},
		{"env prefix", Cmd("npm", "run", "dev").WithEnv("PROGRAM_ID", "abc").WithEnv("A", "x y"), "A='x y' PROGRAM_ID=abc npm run dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandWithEnv_DoesNotAlias(t *testing.T) {
	base := Cmd("npm", "start").WithEnv("A", "1")
	derived := base.WithEnv("B", "2")

	if _, ok := base.Env["B"]; ok {
		t.Error("WithEnv mutated the receiver's env map")
	}
	if derived.Env["A"] != "1" || derived.Env["B"] != "2" {
		t.Errorf("derived env = %v", derived.Env)
	}
}

func TestRunChecked_StreamsOutput(t *testing.T) {
	cr := &stubRunner{result: CmdResult{Combined: "built ok", ExitCode: 0}}
	var out bytes.Buffer

	result, err := RunChecked(context.Background(), cr, Cmd("anchor", "build"), RunOpts{Dir: "/p"}, &out, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Combined != "built ok" {
		t.Errorf("Combined = %q", result.Combined)
	}
	if out.String() != "built ok\n" {
		t.Errorf("streamed output = %q, want %q", out.String(), "built ok\n")
	}
	if cr.gotName != "anchor" || cr.gotOpts.Dir != "/p" {
		t.Errorf("runner called with name=%q dir=%q", cr.gotName, cr.gotOpts.Dir)
	}
}

func TestRunChecked_NonZeroExit(t *testing.T) {
	cr := &stubRunner{result: CmdResult{Combined: "error[E0425]: cannot find value", ExitCode: 101}}
	var out bytes.Buffer

	_, err := RunChecked(context.Background(), cr, Cmd("anchor", "build"), RunOpts{}, &out, discardLogger())
	if errors.GetCode(err) != errors.ECommandFailed {
		t.Fatalf("code = %q, want %q", errors.GetCode(err), errors.ECommandFailed)
	}

	se, _ := errors.AsStarterError(err)
	if se.Details["command"] != "anchor build" {
		t.Errorf("details.command = %q", se.Details["command"])
	}
	if se.Details["exit_code"] != "101" {
		t.Errorf("details.exit_code = %q", se.Details["exit_code"])
	}
	if se.Details["output"] != "error[E0425]: cannot find value" {
		t.Errorf("details.output = %q", se.Details["output"])
	}
	// output is surfaced even on failure
	if out.String() == "" {
		t.Error("failing command output was not streamed")
	}
}

func TestRunChecked_StartFailure(t *testing.T) {
	cause := stderrors.New("exec: \"anchor\": executable file not found in $PATH")
	cr := &stubRunner{err: cause}

	_, err := RunChecked(context.Background(), cr, Cmd("anchor", "init", "x"), RunOpts{}, nil, discardLogger())
	if errors.GetCode(err) != errors.ECommandStartFailed {
		t.Fatalf("code = %q, want %q", errors.GetCode(err), errors.ECommandStartFailed)
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause should be preserved")
	}
}

func TestRunChecked_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cr := &stubRunner{err: stderrors.New("signal: killed")}

	_, err := RunChecked(ctx, cr, Cmd("anchor", "build"), RunOpts{}, nil, discardLogger())
	if errors.GetCode(err) != errors.EInterrupted {
		t.Fatalf("code = %q, want %q", errors.GetCode(err), errors.EInterrupted)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Error("error should wrap context.Canceled")
	}
	se, _ := errors.AsStarterError(err)
	if se.Msg != "interrupted while running anchor" || se.Details["command"] != "anchor build" {
		t.Errorf("error = %q details=%v", se.Msg, se.Details)
	}
}

func TestRunChecked_MergesEnv(t *testing.T) {
	cr := &stubRunner{}
	cmd := Cmd("npm", "run", "dev").WithEnv("PROGRAM_ID", "Addr111")

	_, err := RunChecked(context.Background(), cr, cmd, RunOpts{Env: map[string]string{"CI": "1"}}, nil, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cr.gotOpts.Env["PROGRAM_ID"] != "Addr111" || cr.gotOpts.Env["CI"] != "1" {
		t.Errorf("env = %v, want PROGRAM_ID and CI", cr.gotOpts.Env)
	}
}
