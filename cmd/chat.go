package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/growthdesk/consultor-cli/internal/consult"
	"github.com/growthdesk/consultor-cli/internal/model"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start or resume an interactive consultation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		sess, err := resumeOrCreate(cmd, env)
		if err != nil {
			return err
		}

		// New sessions open with the greeting turn.
		if len(sess.Messages) == 0 {
			out, err := env.Engine.Run(ctx, consult.TurnInput{SessionID: sess.ID, State: sess.State})
			if err != nil {
				return err
			}
			sess.Messages = append(sess.Messages, model.Message{Role: model.RoleAssistant, Content: out.Reply})
			sess.State = out.State
			if err := env.Store.UpdateSession(ctx, sess); err != nil {
				return err
			}
			fmt.Println(out.Reply)
		} else {
			fmt.Printf("Retomando sessão %s (%d mensagens)\n", sess.ID, len(sess.Messages))
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("\n> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "sair" || line == "exit" {
				break
			}

			out, err := env.Engine.Run(ctx, consult.TurnInput{
				SessionID:   sess.ID,
				Messages:    sess.Messages,
				UserMessage: line,
				State:       sess.State,
			})
			if err != nil {
				return err
			}

			sess.Messages = append(sess.Messages,
				model.Message{Role: model.RoleUser, Content: line},
				model.Message{Role: model.RoleAssistant, Content: out.Reply},
			)
			sess.State = out.State
			sess.Ready = out.ReadyForAnalysis
			if err := env.Store.UpdateSession(ctx, sess); err != nil {
				return err
			}

			if out.SearchPerformed {
				fmt.Printf("🔍 %s\n\n", out.SearchQuery)
			}
			fmt.Println(out.Reply)
			if out.ReadyForAnalysis {
				fmt.Println("\n[perfil pronto para análise]")
			}
		}

		fmt.Printf("\nSessão salva: %s\n", sess.ID)
		return scanner.Err()
	},
}

func resumeOrCreate(cmd *cobra.Command, env *env) (*model.Session, error) {
	ctx := cmd.Context()
	if chatSessionID != "" {
		return env.Store.GetSession(ctx, chatSessionID)
	}
	return env.Store.CreateSession(ctx)
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "resume an existing session by id")
	rootCmd.AddCommand(chatCmd)
}
