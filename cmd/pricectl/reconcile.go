package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/foxxcyber/bid-pricing/internal/models"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
)

var draftPath string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute subtotals and total for a pricing draft",
	Long: `Reads a draft ({"pricedItems": [...], "totalAmount": ...}) and prints the
reconciled result with every overridden value listed under discrepancies.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&draftPath, "draft", "-", "draft JSON file, - for stdin")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	raw, err := readDraft(cmd, draftPath)
	if err != nil {
		return err
	}

	var draft *pricing.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("decoding draft: %w", err)
	}

	result, err := pricing.Reconcile(draft)
	if err != nil {
		return fmt.Errorf("reconciling %s: %w", draftSource(draftPath), err)
	}

	discrepancies := pricing.Discrepancies(draft, result)
	for _, d := range discrepancies {
		logg.Warn(cmd.Context(), "overridden "+d.String())
	}
	if discrepancies == nil {
		discrepancies = []pricing.Discrepancy{}
	}

	return writeJSON(cmd.OutOrStdout(), models.ReconcileResponse{
		PricedItems:   result.PricedItems,
		TotalAmount:   result.TotalAmount,
		Discrepancies: discrepancies,
	})
}

func readDraft(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}
	return raw, nil
}

func draftSource(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
