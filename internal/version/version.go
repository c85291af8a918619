// Package version holds the build version, overridable at link time with
// -ldflags "-X github.com/NielsdaWheelz/create-solana-starter/internal/version.Version=...".
package version

// Version is the create-solana-starter release.
var Version = "0.3.0"
