// Package cli implements libraryctl, a command-line client for the catalog API.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"weblibrary/internal/catalogui"
	"weblibrary/internal/client"
)

const defaultServer = "http://localhost:8080"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Server  string
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for libraryctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "libraryctl",
		Short: "libraryctl - manage the web library catalog",
		Long:  "A command-line client for the web library REST API: list, filter, create, update and delete books.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("LIBRARY_SERVER")
	if server == "" {
		server = defaultServer
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "s", server, "API base URL (env LIBRARY_SERVER)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "request timeout")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewFiltersCommand(opts))
	cmd.AddCommand(NewHealthCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) client() (*client.Client, error) {
	c, err := client.New(o.Server, &http.Client{Timeout: o.Timeout})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "bad --server", err)
	}
	return c, nil
}

// controller drives the catalog state machine against the configured server.
func (o *RootOptions) controller() (*catalogui.Controller, error) {
	c, err := o.client()
	if err != nil {
		return nil, err
	}
	return catalogui.NewController(c), nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
