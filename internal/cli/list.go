package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xela07ax/complitic/internal/domain"
	"github.com/xela07ax/complitic/internal/templates"
)

func newListCmd(catalog *templates.Store) *cobra.Command {
	var (
		category string
		search   string
		sortBy   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := templates.Query{Text: search, SortBy: sortBy}
			if category != "" {
				c, err := domain.ParseCategory(category)
				if err != nil {
					return err
				}
				query.Category = c
			}
			list := catalog.Search(query)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			writer := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
			fmt.Fprintln(writer, "SLUG\tNAME\tCATEGORY\tREQUIRED FIELDS")
			for _, t := range list {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", t.Slug, t.Name, t.Category, strings.Join(t.RequiredFields, ", "))
			}
			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (legal, operational)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive search in name and description")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort order: empty keeps catalog order, \"name\" sorts by name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func newShowCmd(catalog *templates.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show template details and placeholders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := catalog.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, args[0])
			}

			out := cmd.OutOrStdout()
			writeLine(out, "%s (%s)", t.Name, t.Slug)
			writeLine(out, "Category: %s", t.Category)
			writeLine(out, "%s", t.Description)
			writeLine(out, "Required fields: %s", strings.Join(t.RequiredFields, ", "))
			return nil
		},
	}
}
