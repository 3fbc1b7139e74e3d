package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kayz/promptstack/internal/blockengine"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List templates visible in the project and global scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, lib, _, err := loadEnvironment()
		if err != nil {
			return err
		}

		for _, scope := range []blockengine.Scope{blockengine.ScopeProject, blockengine.ScopeGlobal} {
			names, err := lib.ListTemplates(scope)
			if err != nil {
				return err
			}
			fmt.Printf("%s:\n", scope)
			if len(names) == 0 {
				fmt.Println("  (none)")
				continue
			}
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
