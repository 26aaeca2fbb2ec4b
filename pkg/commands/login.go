package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func addLogin(topLevel *cobra.Command) {
	var id, pwd string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "verify credentials against the backend",
		Long: "Checks an id/password pair and prints the matching account.\n" +
			"No session is kept; set the returned id as actor in the config.",
		Example: `
prayteam login --id alice --pwd secret
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire()
			if err != nil {
				return output.HandleError(err)
			}
			account, err := e.client.Login(context.Background(), id, pwd)
			if err != nil {
				return output.HandleError(err)
			}
			fmt.Printf("%s (%s)\n", account.Name, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Account id.")
	cmd.Flags().StringVar(&pwd, "pwd", "", "Account password.")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("pwd")

	topLevel.AddCommand(cmd)
}
