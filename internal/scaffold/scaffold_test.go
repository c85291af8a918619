package scaffold

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

func mustProject(t *testing.T, raw, addr string) Project {
	t.Helper()
	p, err := NewProject(raw)
	if err != nil {
		t.Fatalf("NewProject(%q): %v", raw, err)
	}
	if addr == "" {
		return p
	}
	p, err = p.WithAddress(addr)
	if err != nil {
		t.Fatalf("WithAddress(%q): %v", addr, err)
	}
	return p
}

func TestNewProject_DerivesNames(t *testing.T) {
	p := mustProject(t, "token-vault", "")
	if p.SnakeName != "token_vault" {
		t.Errorf("SnakeName = %q, want token_vault", p.SnakeName)
	}
	if p.PascalName != "TokenVault" {
		t.Errorf("PascalName = %q, want TokenVault", p.PascalName)
	}
	if p.HasAddress() {
		t.Error("new project should not have an address")
	}
	if p.KeypairPath() != "target/deploy/token_vault-keypair.json" {
		t.Errorf("KeypairPath() = %q", p.KeypairPath())
	}
	if p.ProgramSourceDir() != "programs/token-vault/src" {
		t.Errorf("ProgramSourceDir() = %q", p.ProgramSourceDir())
	}
}

func TestNewProject_RejectsInvalidName(t *testing.T) {
	_, err := NewProject("bad name")
	if errors.GetCode(err) != errors.EInvalidAppName {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EInvalidAppName)
	}
}

func TestWithAddress(t *testing.T) {
	p := mustProject(t, "my-app", "")

	withAddr, err := p.WithAddress("  ABC123\n")
	if err != nil {
		t.Fatalf("WithAddress: %v", err)
	}
	if withAddr.ProgramAddress != "ABC123" {
		t.Errorf("ProgramAddress = %q, want trimmed ABC123", withAddr.ProgramAddress)
	}
	if p.HasAddress() {
		t.Error("WithAddress mutated the receiver")
	}

	if _, err := withAddr.WithAddress("OTHER"); errors.GetCode(err) != errors.EInternal {
		t.Errorf("second WithAddress code = %q, want %q", errors.GetCode(err), errors.EInternal)
	}
	if _, err := p.WithAddress("   "); errors.GetCode(err) != errors.EAddressUnresolved {
		t.Errorf("blank WithAddress code = %q, want %q", errors.GetCode(err), errors.EAddressUnresolved)
	}
}

func TestManifest_ProgramEntry(t *testing.T) {
	a, err := Manifest(mustProject(t, "my-app", "ABC123"))
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if a.RelPath != "Anchor.toml" {
		t.Errorf("RelPath = %q", a.RelPath)
	}

	// The program-section key is the snake name, the value the quoted address.
	section := sectionLines(a.Content, "[programs.localnet]")
	if len(section) != 1 || section[0] != `my_app = "ABC123"` {
		t.Errorf("[programs.localnet] = %q, want [my_app = \"ABC123\"]", section)
	}

	for _, want := range []string{
		`wallet = "wallet.json"`,
		`cluster = "Localnet"`,
		`verify = "yarn run mocha -t 1000000 verify.js"`,
		`bind_address = "127.0.0.1"`,
	} {
		if !strings.Contains(a.Content, want) {
			t.Errorf("manifest missing %q", want)
		}
	}
}

func TestManifest_RequiresAddress(t *testing.T) {
	_, err := Manifest(mustProject(t, "my-app", ""))
	if errors.GetCode(err) != errors.EAddressUnresolved {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EAddressUnresolved)
	}
}

func TestProgramSource_Basic(t *testing.T) {
	a, err := ProgramSource(mustProject(t, "token-vault", "Vau1t111"), VariantBasic)
	if err != nil {
		t.Fatalf("ProgramSource: %v", err)
	}
	if a.RelPath != "programs/token-vault/src/lib.rs" {
		t.Errorf("RelPath = %q", a.RelPath)
	}
	for _, want := range []string{
		`declare_id!("Vau1t111");`,
		"pub mod token_vault {",
		"pub fn initialize(_ctx: Context<Initialize>) -> Result<()> {",
		"pub struct Initialize {}",
	} {
		if !strings.Contains(a.Content, want) {
			t.Errorf("lib.rs missing %q:\n%s", want, a.Content)
		}
	}
	if strings.Contains(a.Content, "DataAccount") {
		t.Error("basic variant should not declare DataAccount")
	}
	if !strings.HasSuffix(a.Content, "pub struct Initialize {}\n") {
		t.Errorf("basic lib.rs should end after Initialize, got tail %q", a.Content[len(a.Content)-40:])
	}
}

func TestProgramSource_DataVariant(t *testing.T) {
	a, err := ProgramSource(mustProject(t, "counter", "Cnt111"), VariantData)
	if err != nil {
		t.Fatalf("ProgramSource: %v", err)
	}
	for _, want := range []string{
		"pub fn initialize(",
		"pub fn set_data(ctx: Context<SetData>, data: u64) -> Result<()> {",
		"pub fn update_data(ctx: Context<UpdateData>, data: u64) -> Result<()> {",
		"pub struct SetData<'info> {",
		"pub struct UpdateData<'info> {",
		"#[account]\npub struct DataAccount {\n    pub data: u64,\n}",
	} {
		if !strings.Contains(a.Content, want) {
			t.Errorf("data lib.rs missing %q", want)
		}
	}
}

func TestProgramSource_UnknownVariant(t *testing.T) {
	_, err := ProgramSource(mustProject(t, "counter", "Cnt111"), ProgramVariant("nft"))
	if errors.GetCode(err) != errors.EInvalidConfig {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EInvalidConfig)
	}
}

func TestParseProgramVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    ProgramVariant
		wantErr bool
	}{
		{"", VariantBasic, false},
		{"basic", VariantBasic, false},
		{"data", VariantData, false},
		{"Data", "", true},
	}
	for _, tt := range tests {
		got, err := ParseProgramVariant(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseProgramVariant(%q) = (%q, %v), want %q (err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestPackageJSON_Structure(t *testing.T) {
	a, err := PackageJSON(mustProject(t, "my-app", "ABC123"))
	if err != nil {
		t.Fatalf("PackageJSON: %v", err)
	}

	var got PackageDescriptor
	if err := json.Unmarshal([]byte(a.Content), &got); err != nil {
		t.Fatalf("package.json is not valid JSON: %v\n%s", err, a.Content)
	}

	if got.Type != "module" {
		t.Errorf("type = %q, want module", got.Type)
	}
	wantIDLInit := "anchor idl init -f target/idl/my_app.json `solana address -k target/deploy/my_app-keypair.json`"
	if got.Scripts["idl:init"] != wantIDLInit {
		t.Errorf("idl:init = %q, want %q", got.Scripts["idl:init"], wantIDLInit)
	}
	if !strings.HasPrefix(got.Scripts["idl:upgrade"], "anchor idl upgrade -f target/idl/my_app.json") {
		t.Errorf("idl:upgrade = %q", got.Scripts["idl:upgrade"])
	}
	for _, key := range []string{"lint", "lint:fix", "start", "refresh"} {
		if got.Scripts[key] == "" {
			t.Errorf("missing script %q", key)
		}
	}
	if got.Dependencies["@coral-xyz/anchor"] != AnchorClientVersion {
		t.Errorf("anchor dependency = %q", got.Dependencies["@coral-xyz/anchor"])
	}
	if got.DevDependencies["mocha"] == "" {
		t.Error("missing mocha devDependency")
	}
}

func TestPackageJSON_NoHTMLEscaping(t *testing.T) {
	a, err := PackageJSON(mustProject(t, "my-app", "ABC123"))
	if err != nil {
		t.Fatalf("PackageJSON: %v", err)
	}
	if strings.Contains(a.Content, `\u0026`) || strings.Contains(a.Content, `\u003e`) {
		t.Error("shell operators were HTML-escaped")
	}
	if !strings.Contains(a.Content, "solana-test-validator >/dev/null") {
		t.Error("start script should keep its redirect literally")
	}
	if !strings.HasPrefix(a.Content, "{\n  \"") {
		t.Errorf("package.json should use two-space indentation, got %q", a.Content[:10])
	}
}

func TestPackageJSON_RequiresAddress(t *testing.T) {
	_, err := PackageJSON(mustProject(t, "my-app", ""))
	if errors.GetCode(err) != errors.EAddressUnresolved {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EAddressUnresolved)
	}
}

func TestVerifier_UsesPascalBinding(t *testing.T) {
	a, err := Verifier(mustProject(t, "token-vault", ""))
	if err != nil {
		t.Fatalf("Verifier: %v", err)
	}
	if a.RelPath != "verify.js" {
		t.Errorf("RelPath = %q", a.RelPath)
	}
	if !strings.Contains(a.Content, "anchor.workspace.TokenVault.methods.initialize().rpc()") {
		t.Errorf("verify.js does not call TokenVault.initialize:\n%s", a.Content)
	}
}

func TestWatcher_WatchesProgramSource(t *testing.T) {
	a, err := Watcher(mustProject(t, "token-vault", ""))
	if err != nil {
		t.Fatalf("Watcher: %v", err)
	}
	if !strings.Contains(a.Content, `watch(join("programs", "token-vault", "src")`) {
		t.Errorf("watcher.js does not watch the program source dir:\n%s", a.Content)
	}
	if !strings.Contains(a.Content, `execSync("npm run refresh")`) {
		t.Error("watcher.js should rerun npm run refresh")
	}
}

func TestArtifactBytes_TrailingNewline(t *testing.T) {
	if got := string(newArtifact("a", "x").Bytes()); got != "x\n" {
		t.Errorf("Bytes() = %q, want %q", got, "x\n")
	}
	if got := string(newArtifact("a", "x\n").Bytes()); got != "x\n" {
		t.Errorf("Bytes() = %q, want %q", got, "x\n")
	}
}

func TestEnsureIgnored(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		want        string
		wantChanged bool
	}{
		{"empty file", "", "wallet.json\n", true},
		{"append", "target\nnode_modules\n", "target\nnode_modules\nwallet.json\n", true},
		{"append without trailing newline", "target", "target\nwallet.json\n", true},
		{"already present", "target\nwallet.json\n", "target\nwallet.json\n", false},
		{"rooted entry counts", "/wallet.json\n", "/wallet.json\n", false},
		{"present but no trailing newline", "wallet.json", "wallet.json\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := EnsureIgnored(tt.content, WalletIgnoreEntry)
			if got != tt.want || changed != tt.wantChanged {
				t.Errorf("EnsureIgnored(%q) = (%q, %v), want (%q, %v)", tt.content, got, changed, tt.want, tt.wantChanged)
			}
		})
	}
}

// sectionLines returns the non-empty lines following header up to the next
// section header.
func sectionLines(content, header string) []string {
	var out []string
	in := false
	for _, line := range strings.Split(content, "\n") {
		switch {
		case line == header:
			in = true
		case strings.HasPrefix(line, "["):
			in = false
		case in && strings.TrimSpace(line) != "":
			out = append(out, line)
		}
	}
	return out
}
