package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/student-service/internal/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	APIURL  string
	Timeout time.Duration
	Output  string // "table" | "json" | "yaml"
}

// ValidOutputs defines the allowed output formats.
var ValidOutputs = []string{"table", "json", "yaml"}

// NewClient builds an API client from the global flags.
func (o *RootOptions) NewClient() *client.Client {
	return client.New(o.APIURL, o.Timeout)
}

// NewRootCommand creates the root command for the student console.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "studentctl",
		Short:         "Manage student records through the Student API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidOutput(opts.Output) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid output %q: must be one of %v", opts.Output, ValidOutputs))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", client.DefaultBaseURL, "base URL of the Student API")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", client.DefaultTimeout, "request timeout")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "table", "output format (table|json|yaml)")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))

	return cmd
}

func isValidOutput(output string) bool {
	for _, o := range ValidOutputs {
		if o == output {
			return true
		}
	}
	return false
}
