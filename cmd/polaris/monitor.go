package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"lectern-hq/polaris/pkg/config"
	"lectern-hq/polaris/pkg/monitor"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the scheduled pool health monitor",
	Long: `Runs the pool health monitor in the foreground until interrupted.
Each scheduled run logs per-vendor credential health and, when a webhook
URL is configured, POSTs the JSON summary there.

With pool.watch enabled the credential file is watched; edits rebuild the
pool and restart the monitor over the fresh state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime()
		if err != nil {
			return err
		}

		pool, err := config.LoadKeyPool(cfg.Pool.CredentialFile, cfg.Pool.Seed)
		if err != nil {
			return err
		}

		var mu sync.Mutex
		current := monitor.New(pool, cfg.Monitor.Schedule, cfg.Monitor.WebhookURL, log)
		if err := current.Start(); err != nil {
			return err
		}
		defer func() {
			mu.Lock()
			current.Stop()
			mu.Unlock()
		}()

		// One report right away so an operator sees state without waiting
		// for the first scheduled run.
		current.Report()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Pool.Watch {
			w, err := config.NewWatcher(cfg.Pool.CredentialFile, log)
			if err != nil {
				return err
			}
			go w.Watch(ctx, func() error {
				fresh, err := config.LoadKeyPool(cfg.Pool.CredentialFile, cfg.Pool.Seed)
				if err != nil {
					return err
				}
				next := monitor.New(fresh, cfg.Monitor.Schedule, cfg.Monitor.WebhookURL, log)
				if err := next.Start(); err != nil {
					return err
				}
				mu.Lock()
				current.Stop()
				current = next
				mu.Unlock()
				next.Report()
				return nil
			})
		}

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
