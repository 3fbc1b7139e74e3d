package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/promptstack/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Estimate the token count of a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, _, err := loadEnvironment()
		if err != nil {
			return err
		}

		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return err
		}

		fmt.Println(tokens.Estimate(string(data), cfg.Tokens.Model))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
