package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern-hq/polaris/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the runtime config and credential file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		fmt.Printf("runtime config ok: %s\n", cfgFile)

		file, err := config.LoadKeyFile(cfg.Pool.CredentialFile)
		if err != nil {
			return err
		}
		creds := config.BuildCredentials(file)
		fmt.Printf("credential file ok: %s (%d credentials)\n", cfg.Pool.CredentialFile, len(creds))

		if len(creds) == 0 {
			fmt.Println("warning: pool is empty; chat calls will exhaust retries")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
