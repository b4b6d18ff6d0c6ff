package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/nurye/shop/internal/money"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Print search suggestions for text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	query := strings.TrimSpace(strings.Join(args, " "))
	if minChars := env.Config.SearchMinChars; utf8.RuneCountInString(query) < minChars {
		return fmt.Errorf("query must be at least %d characters", minChars)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
	defer cancel()

	results, err := env.Catalog.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results")
		return nil
	}
	for i, s := range results {
		price := ""
		if s.Price != nil {
			price = "  " + money.Format(money.FromPtr(s.Price), env.Config.Currency)
		}
		fmt.Fprintf(out, "%d. %s%s  %s\n", i+1, s.Title, price, s.Route().Path())
	}
	return nil
}
