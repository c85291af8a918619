package scaffold

import (
	"strings"
	"text/template"
)

// ManifestPath is the Anchor workspace manifest.
const ManifestPath = "Anchor.toml"

// WalletPath is the deployer keypair generated by solana-keygen.
const WalletPath = "wallet.json"

// VerifierPath and WatcherPath are the generated tooling scripts.
const (
	VerifierPath = "verify.js"
	WatcherPath  = "watcher.js"
)

var manifestTmpl = template.Must(template.New(ManifestPath).Parse(`[programs.localnet]
{{.SnakeName}} = "{{.ProgramAddress}}"

[provider]
cluster = "Localnet"
wallet = "` + WalletPath + `"

[scripts]
test = "yarn run ts-mocha -p ./tsconfig.json -t 1000000 tests/**/*.ts"
verify = "yarn run mocha -t 1000000 ` + VerifierPath + `"

[test.validator]
bind_address = "127.0.0.1"
`))

// Manifest renders Anchor.toml. The localnet program entry maps the snake
// name to the resolved program address.
func Manifest(p Project) (Artifact, error) {
	if err := p.requireAddress(ManifestPath); err != nil {
		return Artifact{}, err
	}
	content, err := render(manifestTmpl, p)
	if err != nil {
		return Artifact{}, err
	}
	return newArtifact(ManifestPath, content), nil
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
