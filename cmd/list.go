package cmd

import (
	"fmt"

	"github.com/ThatOtherAndrew/fragview/internal/shaders"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the bundled example shaders",
	Run:   listExamples,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listExamples(cmd *cobra.Command, args []string) {
	examples := shaders.Examples()
	if len(examples) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No examples bundled")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Bundled examples:")
	for _, name := range examples {
		if name == shaders.DefaultExample {
			fmt.Fprintln(cmd.OutOrStdout(), "  ", name, "(default)")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "  ", name)
		}
	}
}
