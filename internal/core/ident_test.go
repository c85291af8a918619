package core

import (
	"strings"
	"testing"

	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

func TestSnakeCase_Table(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"my-app", "my_app"},
		{"token-vault", "token_vault"},
		{"app", "app"},
		{"My-App", "My_App"},
		{"a--b", "a__b"},
		{"-lead", "_lead"},
		{"v2-program-3", "v2_program_3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SnakeCase(tt.input); got != tt.expect {
				t.Errorf("SnakeCase(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestSnakeCase_Idempotent(t *testing.T) {
	inputs := []string{"my-app", "a-b-c", "x", "--", "Token-Vault-9", "already_snake"}
	for _, in := range inputs {
		once := SnakeCase(in)
		if twice := SnakeCase(once); twice != once {
			t.Errorf("SnakeCase not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestPascalCase_Table(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"my-app", "MyApp"},
		{"token-vault", "TokenVault"},
		{"app", "App"},
		{"a-b-c", "ABC"},
		{"already-Upper", "AlreadyUpper"},
		{"v2-program", "V2Program"},
		{"2fast", "2fast"},
		{"-lead", "Lead"},
		{"trail-", "Trail"},
		{"a--b", "AB"},
		{"-", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := PascalCase(tt.input); got != tt.expect {
				t.Errorf("PascalCase(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestPascalCase_HyphenFreeOnlyCapitalizesFirst(t *testing.T) {
	inputs := []string{"app", "myApp", "counter", "x", "lowercase123", "ABC"}
	for _, in := range inputs {
		want := strings.ToUpper(in[:1]) + in[1:]
		if got := PascalCase(in); got != want {
			t.Errorf("PascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateAppName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "my-app", false},
		{"digits", "app2", false},
		{"mixed case", "MyApp", false},
		{"empty", "", true},
		{"leading hyphen", "-app", true},
		{"underscore", "my_app", true},
		{"space", "my app", true},
		{"slash", "a/b", true},
		{"dot", "my.app", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAppName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAppName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && errors.GetCode(err) != errors.EInvalidAppName {
				t.Errorf("code = %q, want %q", errors.GetCode(err), errors.EInvalidAppName)
			}
		})
	}
}
