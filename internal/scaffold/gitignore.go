package scaffold

import "strings"

// WalletIgnoreEntry keeps the generated deployer keypair out of version control.
const WalletIgnoreEntry = "wallet.json"

// GitignorePath is the workspace .gitignore created by `anchor init`.
const GitignorePath = ".gitignore"

// EnsureIgnored returns content with entry appended on its own line unless a
// line already matches it (surrounding whitespace and a leading "/" are
// ignored when matching). The result always ends with a newline. The bool
// reports whether the content changed.
func EnsureIgnored(content, entry string) (string, bool) {
	if hasEntry(content, entry) {
		if content != "" && !strings.HasSuffix(content, "\n") {
			return content + "\n", true
		}
		return content, false
	}

	updated := content
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	return updated + entry + "\n", true
}

func hasEntry(content, entry string) bool {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimPrefix(strings.TrimSpace(line), "/") == entry {
			return true
		}
	}
	return false
}

// Gitignore renders the workspace .gitignore with the wallet entry ensured.
func Gitignore(existing string) (Artifact, bool) {
	content, changed := EnsureIgnored(existing, WalletIgnoreEntry)
	return newArtifact(GitignorePath, content), changed
}
