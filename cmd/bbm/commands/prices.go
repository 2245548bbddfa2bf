package commands

import (
	"bbm-backend/internal/prices"
	"bbm-backend/internal/serviceutil"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	pricesProvider   *string
	pricesProvince   *string
	pricesProvinceId *string
	pricesOffline    *bool
)

func init() {
	pricesProvider = pricesCmd.Flags().String("provider", "", "Only show one provider.")
	pricesProvince = pricesCmd.Flags().String("province", "", "Only show records whose province name contains this.")
	pricesProvinceId = pricesCmd.Flags().String("province-id", "", "Only show records matched to this province id.")
	pricesOffline = pricesCmd.Flags().Bool("offline", false, "Match provinces against the built-in list instead of the region API.")
	rootCmd.AddCommand(pricesCmd)
}

var pricesCmd = &cobra.Command{
	Use:   "prices [--provider <name>] [--province <name>] [--province-id <id>]",
	Short: "Fetches every provider once and prints the price table.",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApp(config, *pricesOffline)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}

		snapshot, err := app.service.Snapshot(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to fetch prices", err)
		}
		filtered, err := prices.Query(snapshot, prices.Filter{
			Provider:     *pricesProvider,
			ProvinceID:   *pricesProvinceId,
			ProvinceName: *pricesProvince,
		})
		if err != nil {
			serviceutil.Fatal("failed to filter prices", err)
		}

		printSnapshot(filtered)
	},
}

func printSnapshot(snapshot prices.Snapshot) {
	t := newTable()
	t.SetTitle(fmt.Sprintf("Harga BBM (%s)", snapshot.LastUpdated.Format("2006-01-02 15:04 MST")))
	t.AppendHeader(table.Row{"Provider", "Province", "Province ID", "Product", "Price", "Note"})

	for _, key := range snapshot.Keys() {
		result := snapshot.Providers[key]
		if result.Failed() {
			t.AppendRow(table.Row{key, "", "", "", "", "error: " + result.Error})
			continue
		}
		for _, record := range result.Records {
			products := make([]string, 0, len(record.Products))
			for product := range record.Products {
				products = append(products, product)
			}
			sort.Strings(products)

			for _, product := range products {
				t.AppendRow(table.Row{
					key,
					record.Province,
					record.ProvinceInfo.ID,
					product,
					record.Products[product],
					record.Note,
				})
			}
		}
		t.AppendSeparator()
	}

	t.Render()
}
