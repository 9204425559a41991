package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/foxxcyber/bid-pricing/internal/cache"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
	"github.com/foxxcyber/bid-pricing/internal/services"
)

var (
	products   []string
	quantities string
	noCache    bool
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Draft and reconcile pricing with the configured drafter",
	Example: `  pricectl price --products "SATA 2 HDD,Windows 11 Pro" \
    --quantities "500 SATA 2 HDD units, 40 Windows licenses"`,
	Args: cobra.NoArgs,
	RunE: runPrice,
}

func init() {
	priceCmd.Flags().StringSliceVar(&products, "products", nil, "comma separated product names")
	priceCmd.Flags().StringVar(&quantities, "quantities", "", "free-text quantity details")
	priceCmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the redis draft cache")
	_ = priceCmd.MarkFlagRequired("products")
}

func runPrice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var store services.DraftStore
	if !noCache && cfg.Redis.Enabled() {
		client, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			logg.Warn(ctx, "draft cache disabled: "+err.Error())
		} else {
			defer client.Close()
			store = client
		}
	}

	drafter, name, err := services.BuildDrafter(ctx, cfg, store, logg)
	if err != nil {
		return err
	}
	logg.Debug(logg.WithField(ctx, "drafter", name), "drafting")

	req := pricing.Request{
		ProductList:     trimProducts(products),
		QuantityDetails: quantities,
	}
	result, err := pricing.NewService(drafter, logg, nil).Price(ctx, req)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func trimProducts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
