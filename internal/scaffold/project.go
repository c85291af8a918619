// Package scaffold renders the files written into a freshly initialized
// Anchor workspace. Everything here is pure: callers own all I/O.
package scaffold

import (
	"path"
	"strings"

	"github.com/NielsdaWheelz/create-solana-starter/internal/core"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

// Project is the identity of the program being scaffolded. The two derived
// names are fixed at construction; ProgramAddress is empty until the build
// has produced a keypair and is set exactly once via WithAddress.
type Project struct {
	RawName        string // as typed by the user, e.g. "token-vault"
	SnakeName      string // "token_vault"
	PascalName     string // "TokenVault"
	ProgramAddress string // base58 program id
}

// NewProject validates rawName and derives its snake and Pascal forms.
func NewProject(rawName string) (Project, error) {
	if err := core.ValidateAppName(rawName); err != nil {
		return Project{}, err
	}
	return Project{
		RawName:    rawName,
		SnakeName:  core.SnakeCase(rawName),
		PascalName: core.PascalCase(rawName),
	}, nil
}

// WithAddress returns a copy of p with the program address set.
// The address is trimmed; blank addresses and a second assignment are errors.
func (p Project) WithAddress(addr string) (Project, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return p, errors.New(errors.EAddressUnresolved, "program address is empty")
	}
	if p.ProgramAddress != "" {
		return p, errors.NewWithDetails(errors.EInternal, "program address already set",
			map[string]string{"program_address": p.ProgramAddress})
	}
	p.ProgramAddress = addr
	return p, nil
}

// HasAddress reports whether the program address has been resolved.
func (p Project) HasAddress() bool {
	return p.ProgramAddress != ""
}

// KeypairPath is the program keypair written by `anchor build`, relative to
// the workspace root.
func (p Project) KeypairPath() string {
	return path.Join("target", "deploy", p.SnakeName+"-keypair.json")
}

// IDLPath is the IDL written by `anchor build`, relative to the workspace root.
func (p Project) IDLPath() string {
	return path.Join("target", "idl", p.SnakeName+".json")
}

// ProgramSourceDir is the directory holding lib.rs, relative to the workspace root.
func (p Project) ProgramSourceDir() string {
	return path.Join("programs", p.RawName, "src")
}

func (p Project) requireAddress(artifact string) error {
	if p.HasAddress() {
		return nil
	}
	return errors.NewWithDetails(errors.EAddressUnresolved,
		"program address must be resolved before rendering "+artifact,
		map[string]string{"artifact": artifact})
}
