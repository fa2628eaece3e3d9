// Package commands implements the goalctl subcommands.
package commands

import (
	"os"

	"github.com/benvon/goaltracker/internal/client"
	"github.com/spf13/cobra"
)

// ServerEnvVar overrides the default server URL
const ServerEnvVar = "GOALTRACKER_URL"

// ClientFactory builds the API client a command talks to
type ClientFactory func() (*client.Client, error)

// NewRootCmd creates the goalctl root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	var server string

	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Command line client for the goal tracker API",
		Long:          "Create goals, toggle tasks and inspect progress, streaks and badges on a goal tracker server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv(ServerEnvVar)
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&server, "server", defaultServer, "Goal tracker server URL (env "+ServerEnvVar+")")

	newClient := func() (*client.Client, error) {
		return client.New(server)
	}

	rootCmd.AddCommand(NewCreateCmd(newClient))
	rootCmd.AddCommand(NewListCmd(newClient))
	rootCmd.AddCommand(NewGetCmd(newClient))
	rootCmd.AddCommand(NewToggleCmd(newClient))
	rootCmd.AddCommand(NewCategoriesCmd(newClient))
	rootCmd.AddCommand(NewTimeframesCmd(newClient))

	return rootCmd
}
