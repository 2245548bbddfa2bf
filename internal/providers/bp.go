package providers

import (
	"bbm-backend/internal/assert"
	"bbm-backend/internal/htmlutil"
	"bbm-backend/internal/prices"
	"bbm-backend/internal/telemetry"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const BPURL = "https://www.bp.com/id_id/indonesia/home/produk-dan-layanan/spbu/harga.html"

const (
	report_bp_fetch = "bp.fetch"
	report_bp_empty = "bp.empty"
)

const (
	unavailableProvince = "Data tidak tersedia"
	bpUnavailableNote   = "Silakan cek website BP langsung"
)

// bpRegions maps the region column headers of the price table to provinces.
var bpRegions = map[string][]string{
	"JABODETABEK": {"DKI Jakarta", "Banten", "Jawa Barat"},
	"JAWA TIMUR":  {"Jawa Timur"},
	"JATIM":       {"Jawa Timur"},
	"JAKARTA":     {"DKI Jakarta"},
	"BANTEN":      {"Banten"},
	"JAWA BARAT":  {"Jawa Barat"},
	"JABAR":       {"Jawa Barat"},
}

var bpProducts = []string{"BP 92", "BP Ultimate", "BP Ultimate Diesel"}

type BP struct {
	http *resty.Client
	url  string
	tel  telemetry.API
}

func NewBP(client *resty.Client, url string, tel telemetry.API) BP {
	assert.NotNil(client, "client")
	assert.NotNil(tel, "telemetry")
	if url == "" {
		url = BPURL
	}
	return BP{
		http: client,
		url:  url,
		tel:  telemetry.NewScopedAPI("providers", tel),
	}
}

func (b BP) Fetch(ctx context.Context) ([]prices.RawPriceRecord, error) {
	doc, err := fetchDocument(ctx, b.http, b.url)
	if err != nil {
		b.tel.ReportBroken(report_bp_fetch, err)
		return nil, err
	}

	rows := parseBPTables(doc)
	if len(rows) == 0 {
		rows = parseBPContainers(doc)
	}
	if len(rows) == 0 {
		b.tel.ReportWarning(report_bp_empty, b.url)
		return []prices.RawPriceRecord{{
			Province: unavailableProvince,
			Products: map[string]int64{},
			Note:     bpUnavailableNote,
		}}, nil
	}
	return groupByProvince(rows, ""), nil
}

func isBPHeaderLabel(text string) bool {
	text = strings.ToLower(text)
	return strings.Contains(text, "jenis") ||
		strings.Contains(text, "produk") ||
		strings.Contains(text, "harga")
}

// parseBPTables reads tables laid out with a fuel column followed by one price column
// per region, regions are taken from the header row.
func parseBPTables(doc *goquery.Document) []fuelPrice {
	var rows []fuelPrice

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var headers []string
		headerCells := table.Find("thead th, tr:first-child th, tr:first-child td")
		headerCells.Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.ToUpper(htmlutil.SelectionText(cell)))
		})

		table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
			if rowIdx == 0 && len(headers) > 0 {
				return
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			fuel := htmlutil.SelectionText(cells.First())
			if isBPHeaderLabel(fuel) {
				return
			}

			for i := 1; i < cells.Length(); i++ {
				price, ok := htmlutil.ParsePrice(htmlutil.SelectionText(cells.Eq(i)))
				if !ok || price <= minimumPrice {
					continue
				}

				region := fmt.Sprintf("Region %d", i)
				if i < len(headers) && headers[i] != "" {
					region = headers[i]
				}
				provinces, ok := bpRegions[region]
				if !ok {
					provinces = []string{region}
				}
				for _, province := range provinces {
					rows = append(rows, fuelPrice{province: province, fuel: fuel, price: price})
				}
			}
		})
	})

	return rows
}

var (
	bpPriceRegex  = regexp.MustCompile(`(?i)Rp[\s.]*(\d+[.,]?\d*)`)
	bpRegionRegex = regexp.MustCompile(`(?i)(JABODETABEK|JAWA TIMUR|JATIM|JAKARTA)`)
)

// parseBPContainers handles pages that show prices in cards instead of tables, a card
// without a region is assumed to be JABODETABEK.
func parseBPContainers(doc *goquery.Document) []fuelPrice {
	var rows []fuelPrice

	doc.Find(`[class*="price"], [class*="fuel"], [class*="product"]`).Each(func(_ int, container *goquery.Selection) {
		text := htmlutil.SelectionText(container)
		lower := strings.ToLower(text)

		for _, product := range bpProducts {
			if !strings.Contains(lower, strings.ToLower(strings.TrimPrefix(product, "BP "))) {
				continue
			}
			groups := bpPriceRegex.FindStringSubmatch(text)
			if len(groups) < 2 {
				continue
			}
			price, ok := htmlutil.ParsePrice(groups[1])
			if !ok || price <= minimumPrice {
				continue
			}

			region := "JABODETABEK"
			if match := bpRegionRegex.FindString(text); match != "" {
				region = strings.ToUpper(match)
			}
			provinces, ok := bpRegions[region]
			if !ok {
				provinces = []string{"DKI Jakarta"}
			}
			for _, province := range provinces {
				rows = append(rows, fuelPrice{province: province, fuel: product, price: price})
			}
		}
	})

	return rows
}
