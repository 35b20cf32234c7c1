package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmlite/crm/internal/app"
	"github.com/crmlite/crm/internal/core/domain"
)

type opener func(ctx context.Context) (*app.App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Maintenance and reporting for the CRM store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRepairCmd(open),
		newExportCmd(open),
		newListCmd(open),
		newTotalsCmd(open),
	)
	return root
}

// withApp opens the application for the duration of fn.
func withApp(cmd *cobra.Command, open opener, fn func(a *app.App) error) error {
	a, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close(context.Background())
	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRepairCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Assign fresh ids to stored records whose id is missing or empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				report, err := a.Repair.Repair(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func newExportCmd(open opener) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <quote-id>",
		Short: "Render a quote as PDF into the artifact store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				art, err := a.Export.ExportQuote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if out != "" {
					if err := copyArtifact(cmd.Context(), a, art.Name, out); err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), art)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "also write the document to this local path")
	return cmd
}

func copyArtifact(ctx context.Context, a *app.App, name, path string) error {
	_, body, err := a.Artifacts.Get(ctx, name)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

var listKinds = []string{"clients", "services", "quotes", "projects"}

func newListCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:       "list <kind>",
		Short:     "Print a stored collection as JSON (" + strings.Join(listKinds, ", ") + ")",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: listKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(a *app.App) error {
				ctx := cmd.Context()
				var records any
				switch args[0] {
				case "clients":
					records = a.Repos.Clients.List(ctx)
				case "services":
					records = a.Repos.Services.List(ctx)
				case "quotes":
					records = a.Repos.Quotes.List(ctx)
				case "projects":
					records = a.Repos.Projects.List(ctx)
				}
				return printJSON(cmd.OutOrStdout(), records)
			})
		},
	}
}

func newTotalsCmd(open opener) *cobra.Command {
	var items []string
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Price ad-hoc lines, e.g. --item 80x3 --item 50",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines := make([]domain.QuoteItem, 0, len(items))
			for _, raw := range items {
				item, err := parseItem(raw)
				if err != nil {
					return err
				}
				lines = append(lines, item)
			}
			return withApp(cmd, open, func(a *app.App) error {
				t := a.Compose.Totals(lines)
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Imponibile  %s\n", domain.FormatAmount(t.Subtotal))
				fmt.Fprintf(w, "IVA %s%%     %s\n", domain.FormatPercent(a.Compose.TaxRate()), domain.FormatAmount(t.Tax))
				fmt.Fprintf(w, "Totale      %s\n", domain.FormatAmount(t.GrandTotal))
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "line as PRICE or PRICExQTY (repeatable)")
	return cmd
}

// parseItem reads "80" or "80x3".
func parseItem(raw string) (domain.QuoteItem, error) {
	priceStr, qtyStr, hasQty := strings.Cut(strings.ToLower(raw), "x")
	price, err := strconv.ParseFloat(strings.TrimSpace(priceStr), 64)
	if err != nil || price <= 0 {
		return domain.QuoteItem{}, fmt.Errorf("%w: invalid price in %q", domain.ErrValidation, raw)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil || qty <= 0 {
			return domain.QuoteItem{}, fmt.Errorf("%w: invalid quantity in %q", domain.ErrValidation, raw)
		}
	}
	return domain.QuoteItem{Price: price, Quantity: qty}, nil
}
