// Command authkit serves the registration, login and guarded-profile
// routes over a configured identity store.
//
//	authkit provision              # create the users table for the configured identities
//	authkit serve                  # POST /auth/register, POST /auth/login, GET /auth/me
//	authkit version
//
// Configuration is read from cmd/authkit/config.yml, config/config.yml or
// ./config.yml (or --config), then .env files, then AUTHKIT_* environment
// variables, e.g. AUTHKIT_JWT_SECRET or AUTHKIT_DATABASE_DSN.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/authkit"
	"github.com/kbukum/authkit/config"
)

var rootCmd = &cobra.Command{
	Use:           "authkit",
	Short:         "Identity-configurable registration and login service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to the YAML config file")
	rootCmd.PersistentFlags().String("env-file", "", "path to a .env file")
	rootCmd.PersistentFlags().String("env-prefix", "AUTHKIT", "prefix of the environment variables to bind")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration using the persistent flags.
func loadConfig(cmd *cobra.Command) (*authkit.Config, error) {
	var opts []config.LoaderOption
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path, _ := cmd.Flags().GetString("env-file"); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}
	if prefix, _ := cmd.Flags().GetString("env-prefix"); prefix != "" {
		opts = append(opts, config.WithEnvPrefix(prefix))
	}
	return authkit.Load(opts...)
}
