package cmd

import (
	"fmt"
	"os"

	"userdata-server/core/command"

	"github.com/spf13/cobra"
)

// testdbCmd represents the testdb command
var testdbCmd = &cobra.Command{
	Use:   "testdb <path>",
	Short: "Test connectivity to a user database file",
	Long: `Opens the given SQLite file, runs the health-check query and reports
the record count. Works in any server state; it never touches a running
server's connection.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := command.TestDatabase(args[0])
		fmt.Println(res.Message)
		if !res.Success {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(testdbCmd)
}
