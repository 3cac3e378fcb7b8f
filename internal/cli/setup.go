package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bamic-rtp-server/internal/setup"
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with a desktop MCP client",
	}
	cmd.AddCommand(newSetupInstallCmd(), newSetupStatusCmd())
	return cmd
}

func newSetupInstallCmd() *cobra.Command {
	var (
		configPath string
		binaryPath string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Add or update the bamic-rtp entry in the client config",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := setup.Install(setup.Options{
				ConfigPath: configPath,
				BinaryPath: binaryPath,
				Env:        bamicEnv(os.Environ()),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\n", setup.ServerName, written)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Client config file (default: detect)")
	cmd.Flags().StringVar(&binaryPath, "binary", "", "Path to the mcp-server binary (default: search PATH)")
	return cmd
}

func newSetupStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the MCP server is registered",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := setup.GetStatus(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:     %s\n", status.ConfigPath)
			fmt.Fprintf(out, "Registered: %t\n", status.Configured)
			if status.Configured {
				fmt.Fprintf(out, "Binary:     %s\n", status.ServerPath)
				if len(status.EnvKeys) > 0 {
					fmt.Fprintf(out, "Env:        %s\n", strings.Join(status.EnvKeys, ", "))
				}
			}
			for _, issue := range status.Issues {
				fmt.Fprintf(out, "  ! %s\n", issue)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Client config file (default: detect)")
	return cmd
}

// bamicEnv selects the BAMIC_* settings from an environment listing
func bamicEnv(environ []string) map[string]string {
	env := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, "BAMIC_") {
			env[key] = value
		}
	}
	return env
}
