package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// newAskCmd creates the ask subcommand.
func newAskCmd() *cobra.Command {
	var (
		intent      string
		entityVals  []string
		text        string
		userID      string
		sessionLang string
		classify    bool
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Resolve one answer from the knowledge bases",
		Long: `Ask resolves an answer the way a chat turn does, but with the intent and
entities given on the command line. With --classify the text is sent to the
configured NLU server instead.`,
		Example: `  wellbot ask --intent headache --entity mild
  wellbot ask --intent headache --text "severe headache since morning" --session-lang hi
  wellbot ask --classify --text "I feel great"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if classify {
				resp, err := a.chat.Chat(ctx, &entities.ChatRequest{UserID: userID, Message: text})
				if err != nil {
					return err
				}
				return printChat(cmd, resp)
			}

			answer := a.resolve.Resolve(ctx, entities.ResolveRequest{
				Intent:          intent,
				Entities:        entityVals,
				Text:            text,
				UserID:          userID,
				SessionLanguage: sessionLang,
			})
			return printAnswer(cmd, answer)
		},
	}

	cmd.Flags().StringVar(&intent, "intent", "", "classified intent")
	cmd.Flags().StringSliceVar(&entityVals, "entity", nil, "extracted entity value (repeatable, in order)")
	cmd.Flags().StringVar(&text, "text", "", "raw user text")
	cmd.Flags().StringVar(&userID, "user", "", "user id for the stored language preference")
	cmd.Flags().StringVar(&sessionLang, "session-lang", "", "language carried over from the previous turn")
	cmd.Flags().BoolVar(&classify, "classify", false, "classify --text with the NLU server")

	return cmd
}

// chatOutput and answerOutput use the same keys as the HTTP API.
type chatOutput struct {
	Answer   string   `json:"answer"`
	Language string   `json:"language"`
	Intent   string   `json:"intent"`
	Entities []string `json:"entities"`
}

type answerOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Persist  bool   `json:"persist"`
}

func printChat(cmd *cobra.Command, resp *entities.ChatResponse) error {
	out := chatOutput{
		Answer:   resp.Answer,
		Language: resp.Language,
		Intent:   resp.Intent,
		Entities: resp.Entities,
	}
	if out.Entities == nil {
		out.Entities = []string{}
	}
	return printResult(cmd, out, func() {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s/%s] %s\n", orDash(resp.Intent), resp.Language, resp.Answer)
	})
}

func printAnswer(cmd *cobra.Command, answer entities.ResolvedAnswer) error {
	out := answerOutput{Text: answer.Text, Language: answer.Language, Persist: answer.Persist}
	return printResult(cmd, out, func() {
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", answer.Language, answer.Text)
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
