// Command create-solana-starter scaffolds an Anchor program project with a
// local validator setup and a starter frontend.
package main

import (
	"os"

	"github.com/NielsdaWheelz/create-solana-starter/internal/cli"
	"github.com/NielsdaWheelz/create-solana-starter/internal/errors"
)

func main() {
	err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
