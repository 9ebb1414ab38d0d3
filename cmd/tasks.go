package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks <session-id>",
	Short: "List the research tasks logged during a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		tasks, err := env.Store.ListTasks(ctx, args[0])
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("Nenhuma tarefa de pesquisa registrada.")
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("• %s [%s]\n  %s\n", t.Title, t.Origin, t.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
