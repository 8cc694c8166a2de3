package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configDefault string
var rootCmd = &cobra.Command{
	Use:   "fast-note-pad",
	Short: "Fast Note Pad",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

// Execute 执行根命令，c 为内置默认配置
func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
