package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	sessionsLimit  int
	sessionsOffset int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored consultation sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sessions, err := env.Store.ListSessions(ctx, sessionsLimit, sessionsOffset)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("Nenhuma sessão encontrada.")
			return nil
		}

		for _, s := range sessions {
			ready := " "
			if s.Ready {
				ready = "✓"
			}
			fmt.Printf("%s [%s] %2d mensagens  %s\n",
				s.ID, ready, len(s.Messages), s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "max sessions to list")
	sessionsCmd.Flags().IntVar(&sessionsOffset, "offset", 0, "pagination offset")
	rootCmd.AddCommand(sessionsCmd)
}
