package scaffold

import (
	"fmt"
	"path"
	"text/template"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

// ProgramVariant selects the shape of the generated lib.rs.
type ProgramVariant string

const (
	// VariantBasic declares only the no-op initialize instruction.
	VariantBasic ProgramVariant = "basic"
	// VariantData adds set_data/update_data over a single u64 account.
	VariantData ProgramVariant = "data"
)

// ParseProgramVariant maps a config or flag value onto a ProgramVariant.
func ParseProgramVariant(s string) (ProgramVariant, error) {
	switch ProgramVariant(s) {
	case VariantBasic, VariantData:
		return ProgramVariant(s), nil
	case "":
		return VariantBasic, nil
	}
	return "", errors.New(errors.EInvalidConfig, fmt.Sprintf("unknown program variant %q (want basic or data)", s))
}

var programTmpl = template.Must(template.New("lib.rs").Parse(`use anchor_lang::prelude::*;

declare_id!("{{.ProgramAddress}}");

#[program]
pub mod {{.SnakeName}} {
    use super::*;

    // Called by verify.js after every redeploy.
    pub fn initialize(_ctx: Context<Initialize>) -> Result<()> {
        Ok(())
    }
{{- if .WithData}}

    pub fn set_data(ctx: Context<SetData>, data: u64) -> Result<()> {
        ctx.accounts.data_account.data = data;
        Ok(())
    }

    pub fn update_data(ctx: Context<UpdateData>, data: u64) -> Result<()> {
        ctx.accounts.data_account.data = data;
        Ok(())
    }
{{- end}}
}

#[derive(Accounts)]
pub struct Initialize {}
{{- if .WithData}}

#[derive(Accounts)]
pub struct SetData<'info> {
    #[account(init, payer = user, space = 8 + 8, seeds = [b"data"], bump)]
    pub data_account: Account<'info, DataAccount>,
    #[account(mut)]
    pub user: Signer<'info>,
    pub system_program: Program<'info, System>,
}

#[derive(Accounts)]
pub struct UpdateData<'info> {
    #[account(mut, seeds = [b"data"], bump)]
    pub data_account: Account<'info, DataAccount>,
}

#[account]
pub struct DataAccount {
    pub data: u64,
}
{{- end}}
`))

// ProgramSource renders programs/<raw>/src/lib.rs for the given variant.
func ProgramSource(p Project, variant ProgramVariant) (Artifact, error) {
	relPath := path.Join(p.ProgramSourceDir(), "lib.rs")
	if err := p.requireAddress(relPath); err != nil {
		return Artifact{}, err
	}
	if variant == "" {
		variant = VariantBasic
	}
	if _, err := ParseProgramVariant(string(variant)); err != nil {
		return Artifact{}, err
	}

	content, err := render(programTmpl, struct {
		Project
		WithData bool
	}{p, variant == VariantData})
	if err != nil {
		return Artifact{}, err
	}
	return newArtifact(relPath, content), nil
}
