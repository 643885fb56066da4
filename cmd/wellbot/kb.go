package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gls-pallavi/Wellbot/internal/domain/entities"
)

// newKBCmd creates the kb command group.
func newKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Inspect and edit knowledge bases",
	}

	cmd.AddCommand(newKBListCmd())
	cmd.AddCommand(newKBShowCmd())
	cmd.AddCommand(newKBSearchCmd())
	cmd.AddCommand(newKBAddCmd())
	cmd.AddCommand(newKBUpdateCmd())
	cmd.AddCommand(newKBDeleteCmd())
	return cmd
}

func newKBListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List intents that have a knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			intents, err := a.admin.ListIntents(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, intents, func() {
				for _, intent := range intents {
					fmt.Fprintln(cmd.OutOrStdout(), intent)
				}
			})
		},
	}
}

func newKBShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <intent>",
		Short: "Show every entry of a knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			kb, err := a.admin.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, kb, func() { printEntries(cmd, kb.Entries) })
		},
	}
}

func newKBSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <intent> <query>",
		Short: "Find entries whose id, keywords or text contain the query",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			found, err := a.admin.Search(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, found, func() { printEntries(cmd, found) })
		},
	}
}

// entryFlags collects an entry from --id, --keyword and --text lang=value.
type entryFlags struct {
	id       string
	keywords []string
	texts    []string
}

func (f *entryFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().StringVar(&f.id, "id", "", "entry id")
	}
	cmd.Flags().StringArrayVar(&f.keywords, "keyword", nil, "keyword (repeatable)")
	cmd.Flags().StringArrayVar(&f.texts, "text", nil, "answer text as lang=value, e.g. en=\"Rest.\" (repeatable)")
}

func (f *entryFlags) entry() (entities.Entry, error) {
	e := entities.Entry{ID: f.id, Keywords: f.keywords, Text: make(map[string]string, len(f.texts))}
	for _, t := range f.texts {
		lang, value, ok := strings.Cut(t, "=")
		lang = strings.ToLower(strings.TrimSpace(lang))
		if !ok || lang == "" {
			return entities.Entry{}, fmt.Errorf("%w: --text %q must be lang=value", entities.ErrInvalidEntry, t)
		}
		e.Text[lang] = value
	}
	return e, nil
}

func newKBAddCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:     "add <intent>",
		Short:   "Append an entry to a knowledge base",
		Example: `  wellbot kb add headache --id mild --keyword "mild headache" --text en="Rest and hydrate." --text hi="आराम करें।"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.entry()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			stored, err := a.admin.AddEntry(cmd.Context(), args[0], e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s\n", stored.ID, args[0])
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newKBUpdateCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "update <intent> <id>",
		Short: "Replace an entry, keeping its position",
		Long: `Update replaces the entry with the given id. Keywords and texts are
replaced as a whole; pass --id to rename the entry.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.entry()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			stored, err := a.admin.UpdateEntry(cmd.Context(), args[0], args[1], e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s in %s\n", stored.ID, args[0])
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newKBDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <intent> <id>",
		Short: "Remove an entry from a knowledge base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.admin.DeleteEntry(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s from %s\n", args[1], args[0])
			return nil
		},
	}
}

func printEntries(cmd *cobra.Command, list []entities.Entry) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEYWORDS\tLANGUAGES\tEN")
	for _, e := range list {
		langs := make([]string, 0, len(e.Text))
		for lang := range e.Text {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, strings.Join(e.Keywords, ", "), strings.Join(langs, ","), truncate(e.Text[entities.LangEnglish], 60))
	}
	tw.Flush()
}

// printResult writes v as indented JSON under --json, otherwise calls human.
func printResult(cmd *cobra.Command, v any, human func()) error {
	if !outputJSON {
		human()
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
