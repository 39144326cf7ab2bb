package main

import (
	"fmt"

	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [browser...]",
	Short: "Install the playwright driver and browsers",
	Long: `Install downloads the playwright driver and the named browsers
(default: the configured browser).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		browsers := args
		if len(browsers) == 0 {
			browsers = []string{v.GetString("browser.name")}
		}
		if err := browser.Install(browsers...); err != nil {
			return err
		}
		fmt.Printf("✅ installed %v\n", browsers)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
