package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PackageJSONPath is the workspace npm package descriptor.
const PackageJSONPath = "package.json"

// AnchorClientVersion pins @coral-xyz/anchor to the toolchain the build image ships.
const AnchorClientVersion = "^0.27.0"

// PackageDescriptor is the structured form of package.json.
type PackageDescriptor struct {
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// NewPackageDescriptor builds the descriptor for p. Scripts:
//   - lint, lint:fix: prettier over js/ts sources
//   - start: boot a local validator, airdrop to the wallet, refresh, then watch
//   - refresh: build, deploy, (re)upload the IDL and run verify.js
//   - idl:init, idl:upgrade: IDL registration against the program keypair
func NewPackageDescriptor(p Project) PackageDescriptor {
	addressLookup := fmt.Sprintf("`solana address -k %s`", p.KeypairPath())
	return PackageDescriptor{
		Type: "module",
		Scripts: map[string]string{
			"lint:fix": `prettier */*.js "*/**/*{.js,.ts}" -w`,
			"lint":     `prettier */*.js "*/**/*{.js,.ts}" --check`,
			"start": fmt.Sprintf(
				"(sleep 2 && solana airdrop 100000 -u localhost -k %s; npm run refresh && node %s) & solana-test-validator >/dev/null",
				WalletPath, WatcherPath),
			"refresh":     "anchor build && anchor deploy && npm run idl:init; npm run idl:upgrade && anchor run verify",
			"idl:init":    fmt.Sprintf("anchor idl init -f %s %s", p.IDLPath(), addressLookup),
			"idl:upgrade": fmt.Sprintf("anchor idl upgrade -f %s %s", p.IDLPath(), addressLookup),
		},
		Dependencies: map[string]string{
			"@coral-xyz/anchor": AnchorClientVersion,
		},
		DevDependencies: map[string]string{
			"chai":         "^4.3.4",
			"mocha":        "^9.0.3",
			"ts-mocha":     "^10.0.0",
			"@types/bn.js": "^5.1.0",
			"@types/chai":  "^4.3.0",
			"@types/mocha": "^9.0.0",
			"typescript":   "^4.3.5",
			"prettier":     "^2.6.2",
		},
	}
}

// PackageJSON renders package.json with two-space indentation.
// HTML escaping is off so shell operators in scripts stay readable.
func PackageJSON(p Project) (Artifact, error) {
	if err := p.requireAddress(PackageJSONPath); err != nil {
		return Artifact{}, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewPackageDescriptor(p)); err != nil {
		return Artifact{}, err
	}
	return newArtifact(PackageJSONPath, buf.String()), nil
}
