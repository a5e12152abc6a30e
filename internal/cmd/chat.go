package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindhaven/go-companion-core/internal/chat"
	"github.com/mindhaven/go-companion-core/internal/sysutil"
)

var chatSystemPrompt string

// historyHeight is the number of log lines the /history window shows.
const historyHeight = 12

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the assistant in an interactive session",
	Long: `Opens a websocket session to the assistant and reads messages from
stdin. The session reconnects automatically after a fixed delay when the
connection drops. Type /history to review recent messages and /quit to
leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		assistant := cfg.Assistant
		assistant.SystemPrompt = sysutil.FirstNonEmpty(chatSystemPrompt, assistant.SystemPrompt)

		log := chat.NewLog()
		viewport := chat.NewViewport(historyHeight, cfg.ScrollThreshold)
		session := chat.NewSession(assistant, log, chat.WithNotify(func(m chat.Message) {
			viewport.Extend(1)
			if m.Sender == chat.SenderAssistant {
				fmt.Printf("\rassistant> %s\nyou> ", m.Text)
			}
		}))
		defer session.Close()

		if err := session.Connect(cmd.Context()); err != nil {
			// The session keeps retrying in the background; say so and
			// let the user start typing.
			fmt.Fprintf(os.Stderr, "connection pending: %v\n", err)
		}

		fmt.Println("Connected. Type a message, /history for recent messages, /quit to exit.")
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Print("you> ")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "/quit" || line == "/exit":
				return nil
			case line == "/history":
				printHistory(log, viewport)
			case line == "":
			default:
				if err := session.Send(line); err != nil {
					if errors.Is(err, chat.ErrNotConnected) {
						fmt.Println("not connected yet, retrying in the background")
					} else {
						fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
					}
				}
			}
			fmt.Print("you> ")
		}
		return scanner.Err()
	},
}

// printHistory shows the window of the log the viewport currently covers.
func printHistory(log *chat.Log, viewport *chat.Viewport) {
	msgs := log.Messages()
	if len(msgs) == 0 {
		fmt.Println("(no messages yet)")
		return
	}
	start := viewport.Offset()
	end := start + historyHeight
	if end > len(msgs) {
		end = len(msgs)
	}
	for _, m := range msgs[start:end] {
		fmt.Printf("  [%s] %s: %s\n", m.Timestamp.Format("15:04"), m.Sender, m.Text)
	}
}

func init() {
	chatCmd.Flags().StringVar(&chatSystemPrompt, "system-prompt", "", "override the assistant system prompt")
	rootCmd.AddCommand(chatCmd)
}
