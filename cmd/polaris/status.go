package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lectern-hq/polaris/pkg/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the credential pool state",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}

		pool, err := config.LoadKeyPool(cfg.Pool.CredentialFile, cfg.Pool.Seed)
		if err != nil {
			return err
		}

		snapshot := pool.Snapshot()
		if len(snapshot) == 0 {
			fmt.Println("pool is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVENDOR\tWEIGHT\tSTATE\tTOKENS")
		for _, cs := range snapshot {
			state := "live"
			switch {
			case cs.Dead:
				state = "dead"
			case cs.Open:
				state = fmt.Sprintf("open (%s)", cs.OpenFor.Round(time.Second))
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.1f/%.0f\n",
				cs.Secret, cs.Vendor, cs.Weight, state, cs.TokensLeft, cs.BurstCeiling)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
