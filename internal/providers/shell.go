package providers

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/htmlutil"
	"bbm-backend/internal/prices"
	"bbm-backend/internal/telemetry"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const ShellURL = "https://www.shell.co.id/in_id/pengendara-bermotor/bahan-bakar-shell/harga-bahan-bakar-shell.html"

const (
	report_shell_fetch    = "shell.fetch"
	report_shell_fallback = "shell.fallback"
)

const shellFallbackNote = "Harga acuan (Fallback Data)"

type fuelPrice struct {
	province string
	fuel     string
	price    int64
}

var shellFallbackPrices = []fuelPrice{
	{fuel: "Shell Super", price: 12700},
	{fuel: "Shell V-Power", price: 13190},
	{fuel: "Shell V-Power Diesel", price: 13860},
	{fuel: "Shell V-Power Nitro+", price: 13480},
}

var shellFallbackProvinces = []string{"DKI Jakarta", "Banten", "Jawa Barat"}

// Shell scrapes the "Jenis BBM | Lokasi | Harga per Liter" table. It never fails: when
// the page can't be fetched or has no prices it serves reference prices instead.
type Shell struct {
	http *resty.Client
	url  string
	tel  telemetry.API
}

func NewShell(client *resty.Client, url string, tel telemetry.API) Shell {
	assert.NotNil(client, "client")
	assert.NotNil(tel, "telemetry")
	if url == "" {
		url = ShellURL
	}
	return Shell{
		http: client,
		url:  url,
		tel:  telemetry.NewScopedAPI("providers", tel),
	}
}

func (s Shell) Fetch(ctx context.Context) ([]prices.RawPriceRecord, error) {
	doc, err := fetchDocument(ctx, s.http, s.url)
	if err != nil {
		s.tel.ReportBroken(report_shell_fetch, err)
		return shellFallback(), nil
	}
	rows := parseShell(doc)
	if len(rows) == 0 {
		s.tel.ReportWarning(report_shell_fallback, s.url)
		return shellFallback(), nil
	}
	return groupByProvince(rows, ""), nil
}

var locationSeparator = regexp.MustCompile(`[,/]`)

func parseShell(doc *goquery.Document) []fuelPrice {
	var rows []fuelPrice

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		fuel := htmlutil.SelectionText(cells.Eq(0))
		locations := htmlutil.SelectionText(cells.Eq(1))
		priceText := htmlutil.SelectionText(cells.Eq(2))
		if fuel == "" || locations == "" || priceText == "" {
			return
		}
		if strings.Contains(fuel, "Jenis BBM") {
			return
		}

		price, ok := htmlutil.ParsePrice(priceText)
		if !ok || price < minimumPrice {
			return
		}

		for _, location := range locationSeparator.Split(locations, -1) {
			location = strings.TrimSpace(location)
			if location == "" {
				continue
			}
			rows = append(rows, fuelPrice{
				province: normalizeShellLocation(location),
				fuel:     fuel,
				price:    price,
			})
		}
	})

	return rows
}

func normalizeShellLocation(location string) string {
	lower := strings.ToLower(location)
	if strings.Contains(lower, "jakarta") {
		return "DKI Jakarta"
	}
	if strings.Contains(lower, "sumut") || strings.Contains(lower, "sumatera utara") {
		return "Sumatera Utara"
	}
	return location
}

func shellFallback() []prices.RawPriceRecord {
	var rows []fuelPrice
	for _, province := range shellFallbackProvinces {
		for _, p := range shellFallbackPrices {
			rows = append(rows, fuelPrice{province: province, fuel: p.fuel, price: p.price})
		}
	}
	return groupByProvince(rows, shellFallbackNote)
}

// groupByProvince merges rows into one record per province, in order of first
// appearance. A later price for the same fuel replaces the earlier one.
func groupByProvince(rows []fuelPrice, note string) []prices.RawPriceRecord {
	records := []prices.RawPriceRecord{}
	index := map[string]int{}
	for _, row := range rows {
		i, ok := index[row.province]
		if !ok {
			i = len(records)
			index[row.province] = i
			records = append(records, prices.RawPriceRecord{
				Province: row.province,
				Products: map[string]int64{},
				Note:     note,
			})
		}
		records[i].Products[row.fuel] = row.price
	}
	return records
}
