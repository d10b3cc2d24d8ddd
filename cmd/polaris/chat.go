package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lectern-hq/polaris/pkg/adapter"
	"lectern-hq/polaris/pkg/config"
	"lectern-hq/polaris/pkg/providers"
)

var chatModel string

var chatCmd = &cobra.Command{
	Use:   "chat [prompt...]",
	Short: "Send a one-shot chat request through the pool",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}

		pool, err := config.LoadKeyPool(cfg.Pool.CredentialFile, cfg.Pool.Seed)
		if err != nil {
			return err
		}
		if !pool.HasLiveCredential() {
			return fmt.Errorf("no live credential in %s", cfg.Pool.CredentialFile)
		}

		a := adapter.New(pool, adapter.Options{
			MaxRetries:        cfg.Adapter.MaxRetries,
			AcquireRetryDelay: cfg.Adapter.AcquireRetryDelay,
			HTTPTimeout:       cfg.Adapter.HTTPTimeout,
			ExtraModels:       cfg.Adapter.Models,
			Logger:            log,
		})

		prompt := strings.Join(args, " ")
		text, err := a.Chat(cmd.Context(), []providers.Message{
			providers.Text("user", prompt),
		}, chatModel)
		if err != nil {
			return err
		}

		fmt.Println(text)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "gpt-4o-mini", "model name")
	rootCmd.AddCommand(chatCmd)
}
