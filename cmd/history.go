package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/promptstack/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded renders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, _, err := loadEnvironment()
		if err != nil {
			return err
		}

		s, err := store.NewStore(historyDBPath(cfg))
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.ListRenders(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no renders recorded")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %-24s  %6d chars  ~%d tokens  %d warnings\n",
				rec.CreatedAt.Format(time.DateTime), rec.Source, rec.CharCount, rec.TokenEstimate, rec.WarningCount)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum rows to list")
	rootCmd.AddCommand(historyCmd)
}
