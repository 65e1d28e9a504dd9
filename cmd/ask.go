package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/academydays/hubby/internal/chat"
	"github.com/academydays/hubby/internal/prefs"
	"github.com/academydays/hubby/internal/source"
)

var (
	askDay        string
	askLang       string
	askPopulation string
	askAction     string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question from the terminal",
	Long: `Answers one free-text question, or one quick action with --action, the
same way the chat widget would. Without a question it prints the greeting and
the available days and actions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		res := source.NewLoader(cfg, logger).Load(cmd.Context())
		if res.Degraded() {
			logger.Debug("knowledge base unavailable", zap.Error(res.Err))
		}

		p := &prefs.Memory{}
		if askLang != "" {
			if err := p.Set(prefs.KeyLanguage, askLang); err != nil {
				return err
			}
		}
		if askPopulation != "" {
			if err := p.Set(prefs.KeyPopulation, askPopulation); err != nil {
				return err
			}
		}

		s := chat.New(res.Doc, chat.Options{Config: cfg, Prefs: p})
		if askDay != "" && askDay != s.Day() && !s.SelectDay(askDay) {
			return fmt.Errorf("day %q has no content", askDay)
		}

		out := cmd.OutOrStdout()
		question := strings.TrimSpace(strings.Join(args, " "))

		var msgs []chat.Message
		switch {
		case askAction != "":
			var ok bool
			if msgs, ok = s.ClickAction(askAction); !ok {
				return fmt.Errorf("unknown action %q", askAction)
			}
		case question != "":
			msgs, _ = s.SendText(question)
		default:
			fmt.Fprintln(out, s.Welcome().Text)
			c := s.Controls()
			fmt.Fprintln(out)
			for _, d := range c.Days {
				marker := " "
				if d.Active {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-4s %s\n", marker, d.ID, d.Label)
			}
			fmt.Fprintln(out)
			for _, a := range c.Actions {
				fmt.Fprintf(out, "  %-12s %s\n", a.ID, a.Label)
			}
			return nil
		}

		for _, m := range msgs {
			if m.Role == chat.RoleBot {
				fmt.Fprintln(out, m.Text)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askDay, "day", "", "day id (defaults to the first day with content)")
	askCmd.Flags().StringVar(&askLang, "lang", "", "answer language (fr or en)")
	askCmd.Flags().StringVar(&askPopulation, "population", "", "visitor population tags, e.g. CDV")
	askCmd.Flags().StringVar(&askAction, "action", "", "quick action id instead of a question")
	rootCmd.AddCommand(askCmd)
}
