package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the course assistant",
	Long: `Send a message to the course assistant and print its reply. Without a
message the transcript is printed. With MONGO_URI set the transcript is
kept between runs.

Examples:
  cursosuc chat "¿Qué OFGs me recomiendas?"
  cursosuc chat
  cursosuc chat --clear`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Bool("clear", false, "clear the transcript")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reset, _ := cmd.Flags().GetBool("clear")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if reset {
		a.chat.Clear(ctx)
		fmt.Println("Transcript cleared")
		return nil
	}

	if err := a.chat.LoadHistory(ctx); err != nil {
		return err
	}

	if len(args) == 0 {
		msgs := a.chat.Messages()
		if jsonOut {
			return printJSON(map[string]any{"messages": msgs})
		}
		for _, m := range msgs {
			printMessage(m)
		}
		return nil
	}

	if err := a.chat.Send(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	msgs := a.chat.Messages()
	if len(msgs) == 0 {
		return nil
	}
	reply := msgs[len(msgs)-1]
	if jsonOut {
		return printJSON(reply)
	}
	printMessage(reply)
	return nil
}

func printMessage(m domain.ChatMessage) {
	who := "tú"
	if m.Sender == domain.SenderBot {
		who = "asistente"
	}
	fmt.Printf("[%s] %s\n", who, m.Content)
}
