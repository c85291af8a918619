// Package commands implements the create-solana-starter commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NielsdaWheelz/create-solana-starter/internal/config"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
	"github.com/NielsdaWheelz/create-solana-starter/internal/exec"
	"github.com/NielsdaWheelz/create-solana-starter/internal/paths"
)

// Tool is an external CLI the scaffolding run depends on.
type Tool struct {
	Name    string
	Args    []string // arguments that print the version
	Install string   // hint shown when the tool is missing
}

// Tools needed on the host by the local backend.
var localTools = []Tool{
	{Name: "anchor", Args: []string{"--version"}, Install: "install with avm: https://www.anchor-lang.com/docs/installation"},
	{Name: "solana", Args: []string{"--version"}, Install: "install the Solana CLI: https://docs.solanalabs.com/cli/install"},
	{Name: "solana-keygen", Args: []string{"--version"}, Install: "ships with the Solana CLI"},
	{Name: "npm", Args: []string{"--version"}, Install: "install Node.js: https://nodejs.org"},
	{Name: "git", Args: []string{"--version"}, Install: "install git: https://git-scm.com"},
}

// containerTools returns the tools needed on the host by the container
// backend. Asking for the server version also proves the daemon is reachable.
func containerTools(dockerBin string) []Tool {
	return []Tool{
		{Name: dockerBin, Args: []string{"version", "--format", "{{.Server.Version}}"}, Install: "install Docker and make sure the daemon is running"},
	}
}

// ToolStatus is the outcome of checking one tool.
type ToolStatus struct {
	Name    string
	Version string
}

// checkTool runs the tool's version command. A tool that cannot start or
// exits non-zero is E_TOOL_NOT_INSTALLED.
func checkTool(ctx context.Context, cr exec.CommandRunner, tool Tool) (ToolStatus, error) {
	details := map[string]string{"tool": tool.Name, "hint": tool.Install}
	result, err := cr.Run(ctx, tool.Name, tool.Args, exec.RunOpts{})
	if err != nil {
		return ToolStatus{}, errors.WrapWithDetails(errors.EToolNotInstalled,
			tool.Name+" is not installed or not on PATH; "+tool.Install, err, details)
	}
	if !result.Succeeded() {
		details["output"] = strings.TrimSpace(result.Combined)
		return ToolStatus{}, errors.NewWithDetails(errors.EToolNotInstalled,
			fmt.Sprintf("%s %s failed (exit %d); %s", tool.Name, strings.Join(tool.Args, " "), result.ExitCode, tool.Install),
			details)
	}
	// Some tools print several lines; the first carries the version.
	version := strings.TrimSpace(strings.SplitN(result.Stdout, "\n", 2)[0])
	return ToolStatus{Name: tool.Name, Version: version}, nil
}

// Preflight checks every tool the chosen backend needs, failing on the first
// one missing.
func Preflight(ctx context.Context, cr exec.CommandRunner, docker bool, cfg config.Config) ([]ToolStatus, error) {
	tools := localTools
	if docker {
		tools = containerTools(cfg.Sandbox.DockerBin)
	}
	statuses := make([]ToolStatus, 0, len(tools))
	for _, tool := range tools {
		st, err := checkTool(ctx, cr, tool)
		if err != nil {
			return statuses, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// DoctorReport holds all the data for doctor output.
type DoctorReport struct {
	Backend   string
	ConfigDir string
	DataDir   string
	Config    config.Config
	Tools     []ToolStatus
}

// Doctor checks the prerequisites of the selected backend and prints the
// resolved settings.
func Doctor(ctx context.Context, cr exec.CommandRunner, dirs paths.Dirs, cfg config.Config, docker bool, stdout io.Writer) error {
	tools, err := Preflight(ctx, cr, docker, cfg)
	if err != nil {
		return err
	}
	backendName := "local"
	if docker {
		backendName = "container"
	}
	writeDoctorOutput(stdout, DoctorReport{
		Backend:   backendName,
		ConfigDir: dirs.ConfigDir,
		DataDir:   dirs.DataDir,
		Config:    cfg,
		Tools:     tools,
	})
	return nil
}

// writeDoctorOutput writes the stable key: value output.
func writeDoctorOutput(w io.Writer, r DoctorReport) {
	fmt.Fprintf(w, "backend: %s\n", r.Backend)
	fmt.Fprintf(w, "config_dir: %s\n", r.ConfigDir)
	fmt.Fprintf(w, "data_dir: %s\n", r.DataDir)
	fmt.Fprintf(w, "program: %s\n", r.Config.Program)
	fmt.Fprintf(w, "frontend_url: %s\n", r.Config.Frontend.URL)
	if r.Backend == "container" {
		fmt.Fprintf(w, "sandbox_image: %s\n", r.Config.Sandbox.Image)
		fmt.Fprintf(w, "sandbox_name: %s\n", r.Config.Sandbox.Name)
		fmt.Fprintf(w, "sandbox_workdir: %s\n", r.Config.Sandbox.WorkDir)
	}
	for _, t := range r.Tools {
		fmt.Fprintf(w, "%s: %s\n", t.Name, t.Version)
	}
}
