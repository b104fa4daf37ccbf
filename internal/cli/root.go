// Package cli implements libctl, the operator command line for the library backend.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the libctl root command. boot opens the
// application for each subcommand invocation.
func NewRootCommand(boot Bootstrap) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "libctl",
		Short: "libctl - library backend operator tool",
		Long:  "Operate the library backend: run migrations, recompute payroll, issue QR sessions and provision profiles.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./config/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts, boot))
	cmd.AddCommand(NewSalaryCommand(opts, boot))
	cmd.AddCommand(NewQRCommand(opts, boot))
	cmd.AddCommand(NewUserCommand(opts, boot))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
