// Package workflow drives the fixed scaffolding pipeline for a new Anchor
// project against an execution backend.
// Steps run in a fixed order and the first error stops the run; errors keep
// their StarterError codes and carry the failing step's name.
package workflow

import (
	"context"
	"log/slog"
	"path"

	"github.com/NielsdaWheelz/create-solana-starter/internal/backend"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
	"github.com/NielsdaWheelz/create-solana-starter/internal/fs"
	"github.com/NielsdaWheelz/create-solana-starter/internal/render"
	"github.com/NielsdaWheelz/create-solana-starter/internal/scaffold"
)

// Step name constants.
const (
	StepScaffold          = "Scaffold"
	StepIdentity          = "Identity"
	StepBuild             = "Build"
	StepResolveAddress    = "ResolveAddress"
	StepEmitArtifacts     = "EmitArtifacts"
	StepSelfTest          = "SelfTest"
	StepEmitTooling       = "EmitTooling"
	StepBootstrapFrontend = "BootstrapFrontend"
	StepFinalize          = "Finalize"
	StepReport            = "Report"
)

// Defaults for Options fields left empty.
const (
	DefaultFrontendURL = "https://github.com/solana-developers/dapp-scaffold"
	DefaultFrontendDir = "app"
)

// Options contains the inputs for one scaffolding run.
type Options struct {
	// AppName is the project name as typed by the user.
	AppName string

	// Variant selects the program stub (default basic).
	Variant scaffold.ProgramVariant

	// FrontendURL is the starter template cloned into FrontendDir.
	FrontendURL string

	// FrontendDir is the frontend directory inside the project.
	FrontendDir string

	// KeepSandboxOnFailure leaves a container sandbox running after a failed
	// step so it can be inspected. The sandbox is removed otherwise.
	KeepSandboxOnFailure bool
}

// Warning represents a non-fatal problem hit during the run.
type Warning struct {
	// Code is a stable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string
}

// Warning codes.
const (
	WarnFrontendMetadata = "W_FRONTEND_GIT_METADATA"
	WarnSandboxKept      = "W_SANDBOX_KEPT"
	WarnTeardownFailed   = "W_TEARDOWN_FAILED"
)

// State accumulates what the steps learn. Ctx is the current execution
// context; steps that change directory replace it.
type State struct {
	Project scaffold.Project
	Ctx     backend.ExecContext

	Variant     scaffold.ProgramVariant
	FrontendURL string
	FrontendDir string

	Warnings []Warning
}

func (st *State) warn(code, msg string) {
	st.Warnings = append(st.Warnings, Warning{Code: code, Message: msg})
}

// Result describes a run, complete or not.
type Result struct {
	Project scaffold.Project

	// ProjectDir is the project directory on the host.
	ProjectDir string

	// Completed lists the steps that finished, in order.
	Completed []string

	Warnings []Warning
}

type step struct {
	name string
	fn   func(context.Context, *State) error
}

// Workflow runs the pipeline. It is the only writer of generated files.
type Workflow struct {
	b      backend.Backend
	fsys   fs.FS
	pr     *render.Printer
	logger *slog.Logger
}

// New creates a workflow over b. Progress banners go to pr, diagnostics to logger.
func New(b backend.Backend, fsys fs.FS, pr *render.Printer, logger *slog.Logger) *Workflow {
	return &Workflow{b: b, fsys: fsys, pr: pr, logger: logger}
}

// Run executes the steps in fixed order:
//  1. Scaffold
//  2. Identity
//  3. Build
//  4. ResolveAddress
//  5. EmitArtifacts
//  6. SelfTest
//  7. EmitTooling
//  8. BootstrapFrontend
//  9. Finalize
//  10. Report
//
// The app name is validated before anything runs. On failure the backend is
// torn down unless opts.KeepSandboxOnFailure is set; the returned Result
// still lists the steps that completed.
func (w *Workflow) Run(ctx context.Context, opts Options) (Result, error) {
	p, err := scaffold.NewProject(opts.AppName)
	if err != nil {
		return Result{}, err
	}
	variant := opts.Variant
	if variant == "" {
		variant = scaffold.VariantBasic
	}
	if _, err := scaffold.ParseProgramVariant(string(variant)); err != nil {
		return Result{}, err
	}

	st := &State{
		Project:     p,
		Ctx:         w.b.Root(),
		Variant:     variant,
		FrontendURL: opts.FrontendURL,
		FrontendDir: opts.FrontendDir,
	}
	if st.FrontendURL == "" {
		st.FrontendURL = DefaultFrontendURL
	}
	if st.FrontendDir == "" {
		st.FrontendDir = DefaultFrontendDir
	}

	res := Result{ProjectDir: w.b.Root().Enter(p.RawName).HostDir}
	for _, s := range w.steps() {
		w.logger.Debug("step started", "step", s.name)
		if err := s.fn(ctx, st); err != nil {
			err = wrapStepError(err, s.name)
			w.abort(ctx, st, opts.KeepSandboxOnFailure)
			res.Project = st.Project
			res.Warnings = st.Warnings
			return res, err
		}
		res.Completed = append(res.Completed, s.name)
	}

	res.Project = st.Project
	res.Warnings = st.Warnings
	return res, nil
}

func (w *Workflow) steps() []step {
	return []step{
		{StepScaffold, w.scaffold},
		{StepIdentity, w.identity},
		{StepBuild, w.build},
		{StepResolveAddress, w.resolveAddress},
		{StepEmitArtifacts, w.emitArtifacts},
		{StepSelfTest, w.selfTest},
		{StepEmitTooling, w.emitTooling},
		{StepBootstrapFrontend, w.bootstrapFrontend},
		{StepFinalize, w.finalize},
		{StepReport, w.report},
	}
}

// abort releases the backend after a failed step. Teardown runs on a context
// detached from cancellation so an interrupted run still cleans up.
func (w *Workflow) abort(ctx context.Context, st *State, keep bool) {
	if w.b.Kind() == backend.KindContainer && keep {
		name := st.Ctx.SandboxID
		w.logger.Warn("sandbox left running for inspection", "sandbox", name)
		w.pr.Warn("Sandbox %s was kept. Remove it with: docker rm -f %s", name, name)
		st.warn(WarnSandboxKept, "sandbox "+name+" left running")
		return
	}
	if err := w.b.Teardown(context.WithoutCancel(ctx)); err != nil {
		w.logger.Warn("teardown after failure did not complete", "error", err)
		st.warn(WarnTeardownFailed, err.Error())
	}
}

func (w *Workflow) run(ctx context.Context, ec backend.ExecContext, cmd exec.Command) (exec.CmdResult, error) {
	w.pr.Step("Running '%s'...", cmd.String())
	return w.b.Run(ctx, ec, cmd)
}

func (w *Workflow) scaffold(ctx context.Context, st *State) error {
	if _, err := w.run(ctx, st.Ctx, exec.Cmd("anchor", "init", st.Project.RawName)); err != nil {
		return err
	}
	w.pr.Step("Stepping into %s...", st.Project.RawName)
	st.Ctx = st.Ctx.Enter(st.Project.RawName)
	return nil
}

func (w *Workflow) identity(ctx context.Context, st *State) error {
	_, err := w.run(ctx, st.Ctx, exec.Cmd("solana-keygen", "new", "--no-bip39-passphrase", "-o", scaffold.WalletPath))
	return err
}

func (w *Workflow) build(ctx context.Context, st *State) error {
	_, err := w.run(ctx, st.Ctx, exec.Cmd("anchor", "build"))
	return err
}

func (w *Workflow) resolveAddress(ctx context.Context, st *State) error {
	out, err := w.run(ctx, st.Ctx, exec.Cmd("solana", "address", "-k", st.Project.KeypairPath()))
	if err != nil {
		return err
	}
	p, err := st.Project.WithAddress(out.Stdout)
	if err != nil {
		if se, ok := errors.AsStarterError(err); ok && se.Code == errors.EAddressUnresolved {
			return errors.NewWithDetails(errors.EAddressUnresolved,
				"program address lookup returned no output",
				map[string]string{"keypair": st.Project.KeypairPath()})
		}
		return err
	}
	st.Project = p
	w.logger.Info("program address resolved", "address", p.ProgramAddress)
	return nil
}

func (w *Workflow) emitArtifacts(ctx context.Context, st *State) error {
	manifest, err := scaffold.Manifest(st.Project)
	if err != nil {
		return err
	}
	program, err := scaffold.ProgramSource(st.Project, st.Variant)
	if err != nil {
		return err
	}
	pkg, err := scaffold.PackageJSON(st.Project)
	if err != nil {
		return err
	}
	return w.emit(ctx, st.Ctx, manifest, program, pkg)
}

func (w *Workflow) selfTest(ctx context.Context, st *State) error {
	if w.b.Kind() == backend.KindContainer {
		w.logger.Info("skipping anchor test inside the sandbox", "sandbox", st.Ctx.SandboxID)
		w.pr.Step("Skipping 'anchor test' in the sandbox...")
		return nil
	}
	_, err := w.run(ctx, st.Ctx, exec.Cmd("anchor", "test"))
	return err
}

func (w *Workflow) emitTooling(ctx context.Context, st *State) error {
	watcher, err := scaffold.Watcher(st.Project)
	if err != nil {
		return err
	}
	verifier, err := scaffold.Verifier(st.Project)
	if err != nil {
		return err
	}
	if err := w.emit(ctx, st.Ctx, watcher, verifier); err != nil {
		return err
	}
	return w.ignoreWallet(ctx, st.Ctx)
}

// ignoreWallet makes sure the deployer keypair never lands in version
// control. In a sandbox the .gitignore written by `anchor init` is pulled out
// first so the host copy is current.
func (w *Workflow) ignoreWallet(ctx context.Context, ec backend.ExecContext) error {
	if err := w.b.StageOut(ctx, ec, scaffold.GitignorePath); err != nil {
		return err
	}
	hostPath := ec.HostPath(scaffold.GitignorePath)
	var existing string
	ok, err := fs.Exists(w.fsys, hostPath)
	if err != nil {
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to stat .gitignore", err,
			map[string]string{"path": hostPath})
	}
	if ok {
		data, err := w.fsys.ReadFile(hostPath)
		if err != nil {
			return errors.WrapWithDetails(errors.EWriteFailed, "failed to read .gitignore", err,
				map[string]string{"path": hostPath})
		}
		existing = string(data)
	}

	a, changed := scaffold.Gitignore(existing)
	if !changed {
		return nil
	}
	return w.emit(ctx, ec, a)
}

func (w *Workflow) bootstrapFrontend(ctx context.Context, st *State) error {
	if _, err := w.run(ctx, st.Ctx, exec.Cmd("npm", "i", "chalk")); err != nil {
		return err
	}
	if _, err := w.run(ctx, st.Ctx, exec.Cmd("git", "clone", "--depth", "1", st.FrontendURL, st.FrontendDir)); err != nil {
		return err
	}

	meta := path.Join(st.FrontendDir, ".git")
	if _, err := w.b.Run(ctx, st.Ctx, exec.Cmd("rm", "-rf", meta)); err != nil {
		w.logger.Warn("could not remove frontend git metadata", "path", meta, "error", err)
		w.pr.Warn("Could not remove %s; delete it before committing.", meta)
		st.warn(WarnFrontendMetadata, "could not remove "+meta)
	}

	w.pr.Step("Stepping into %s...", st.FrontendDir)
	st.Ctx = st.Ctx.Enter(st.FrontendDir)
	if _, err := w.run(ctx, st.Ctx, exec.Cmd("npm", "install")); err != nil {
		return err
	}
	st.Ctx = st.Ctx.Leave()
	return nil
}

func (w *Workflow) finalize(ctx context.Context, st *State) error {
	if w.b.Kind() != backend.KindContainer {
		return nil
	}
	w.pr.Step("Copying %s out of the sandbox...", st.Project.RawName)
	if err := w.b.StageOut(ctx, st.Ctx, "."); err != nil {
		return err
	}
	return w.b.Teardown(ctx)
}

func (w *Workflow) report(_ context.Context, st *State) error {
	raw := st.Project.RawName
	dev := exec.Cmd("npm", "run", "dev").WithEnv("PROGRAM_ID", st.Project.ProgramAddress)
	w.pr.Hints(
		render.Hint{Before: "Almost done! Run", Command: "cd " + raw + " && npm start", After: "to start the validator and watcher,"},
		render.Hint{Before: "then", Command: "cd " + path.Join(raw, st.FrontendDir) + " && " + dev.String(), After: "to start the frontend."},
	)
	return nil
}

// emit writes each artifact under ec on the host and stages it into the
// execution environment.
func (w *Workflow) emit(ctx context.Context, ec backend.ExecContext, artifacts ...scaffold.Artifact) error {
	for _, a := range artifacts {
		hostPath := ec.HostPath(a.RelPath)
		w.pr.Step("Writing %s...", a.RelPath)
		if err := fs.WriteFileAtomicAll(w.fsys, hostPath, a.Bytes(), a.Mode); err != nil {
			return errors.WrapWithDetails(errors.EWriteFailed, "failed to write "+a.RelPath, err,
				map[string]string{"path": hostPath})
		}
		if err := w.b.StageIn(ctx, ec, a.RelPath); err != nil {
			return err
		}
		w.logger.Debug("artifact written", "path", hostPath, "bytes", len(a.Bytes()))
	}
	return nil
}

// wrapStepError ensures the error is a *StarterError naming the step.
// Codes and messages of StarterErrors are preserved; anything else becomes
// E_INTERNAL.
func wrapStepError(err error, stepName string) error {
	if err == nil {
		return nil
	}

	if se, ok := errors.AsStarterError(err); ok {
		if se.Details["step"] != "" {
			return err
		}
		details := map[string]string{"step": stepName}
		for k, v := range se.Details {
			details[k] = v
		}
		return errors.WrapWithDetails(se.Code, se.Msg, se.Cause, details)
	}

	return errors.WrapWithDetails(
		errors.EInternal,
		"internal error",
		err,
		map[string]string{"step": stepName},
	)
}
