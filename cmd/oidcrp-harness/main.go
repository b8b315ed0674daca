// Command oidcrp-harness is a small CLI around pkg/oidcrp, useful for
// interactively exercising discovery, dynamic registration, the
// authorization URL builder and a self-contained certification battery
// against a running OpenID Provider (or, for certify, against synthetic
// tokens the command mints itself).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oidcrp-harness",
		Short: "Exercise an OpenID Connect relying party against a provider",
	}

	cmd.AddCommand(
		newDiscoverCmd(),
		newRegisterCmd(),
		newAuthURLCmd(),
		newCertifyCmd(),
	)

	return cmd
}
