package core

import "strings"

// shellSpecial lists the bytes that force a token to be quoted.
const shellSpecial = " \t\n'\"`$\\|&;<>()*?[]{}!#~"

// ShellEscapePosix returns a single shell token using single-quote strategy,
// including surrounding single quotes.
// example: abc -> 'abc'
// example: a'b -> 'a'"'"'b'
// example: "" -> ''
func ShellEscapePosix(s string) string {
	if s == "" {
		return "''"
	}
	// 'a'b' => 'a'"'"'b'
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// ShellQuote quotes tok only when the shell would otherwise split or expand it.
// example: build -> build
// example: first commit -> 'first commit'
func ShellQuote(tok string) string {
	if tok == "" || strings.ContainsAny(tok, shellSpecial) {
		return ShellEscapePosix(tok)
	}
	return tok
}

// ShellJoin renders argv as one shell line suitable for display and for
// pasting back into a terminal.
func ShellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, tok := range argv {
		quoted[i] = ShellQuote(tok)
	}
	return strings.Join(quoted, " ")
}
