// Package paths resolves the create-solana-starter config and data
// directories following XDG conventions.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under every base directory.
const AppName = "create-solana-starter"

// Override environment variables.
const (
	EnvDataDir   = "CREATE_SOLANA_STARTER_DATA_DIR"
	EnvConfigDir = "CREATE_SOLANA_STARTER_CONFIG_DIR"
)

// Dirs holds the resolved directory paths.
type Dirs struct {
	// DataDir holds sandbox lock files.
	DataDir string
	// ConfigDir holds config.yaml.
	ConfigDir string
}

// Env is the interface for environment variable lookups.
// Implementations must return "" for unset variables.
type Env interface {
	Get(key string) string
}

// base describes how one directory kind is resolved.
type base struct {
	override string   // app-specific env var
	darwin   []string // path under $HOME on macOS
	xdgVar   string   // XDG base directory variable
	fallback []string // path under $HOME elsewhere
}

var (
	dataBase = base{
		override: EnvDataDir,
		darwin:   []string{"Library", "Application Support"},
		xdgVar:   "XDG_DATA_HOME",
		fallback: []string{".local", "share"},
	}
	configBase = base{
		override: EnvConfigDir,
		darwin:   []string{"Library", "Preferences"},
		xdgVar:   "XDG_CONFIG_HOME",
		fallback: []string{".config"},
	}
)

// ResolveDirs computes the data and config directories.
//
// Resolution order for each directory:
//  1. CREATE_SOLANA_STARTER_DATA_DIR / CREATE_SOLANA_STARTER_CONFIG_DIR (if set)
//  2. macOS: ~/Library/Application Support/create-solana-starter or
//     ~/Library/Preferences/create-solana-starter
//  3. XDG_DATA_HOME / XDG_CONFIG_HOME joined with create-solana-starter (if set)
//  4. ~/.local/share/create-solana-starter or ~/.config/create-solana-starter
//
// homeDir must be absolute. Nothing is created on disk, and ~ inside env vars
// is taken literally.
func ResolveDirs(env Env, homeDir string) Dirs {
	return ResolveDirsWithOS(env, homeDir, IsDarwin())
}

// IsDarwin returns true if the current OS is macOS.
func IsDarwin() bool {
	return runtime.GOOS == "darwin"
}

// ResolveDirsWithOS is like ResolveDirs but accepts an explicit OS flag for testing.
func ResolveDirsWithOS(env Env, homeDir string, isDarwin bool) Dirs {
	return Dirs{
		DataDir:   dataBase.resolve(env, homeDir, isDarwin),
		ConfigDir: configBase.resolve(env, homeDir, isDarwin),
	}
}

func (b base) resolve(env Env, homeDir string, isDarwin bool) string {
	if v := env.Get(b.override); v != "" {
		return v
	}
	if isDarwin {
		return filepath.Join(append(append([]string{homeDir}, b.darwin...), AppName)...)
	}
	if v := env.Get(b.xdgVar); v != "" {
		return filepath.Join(v, AppName)
	}
	return filepath.Join(append(append([]string{homeDir}, b.fallback...), AppName)...)
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) Get(key string) string { return os.Getenv(key) }
