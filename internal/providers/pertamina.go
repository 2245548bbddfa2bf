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

const PertaminaURL = "https://mypertamina.id/about/product-price"

const (
	report_pertamina_fetch = "pertamina.fetch"
	report_pertamina_empty = "pertamina.empty"
)

// pertaminaFuels is the column order of the price table, after the province column.
var pertaminaFuels = []string{
	"Pertalite",
	"Pertamax",
	"Pertamax Green",
	"Pertamax Turbo",
	"Pertamina Dex",
	"Dexlite",
	"Solar",
}

// minimumPrice filters out cells that hold digits but aren't rupiah prices (footnotes, liters, ...).
const minimumPrice = 1000

type Pertamina struct {
	http *resty.Client
	url  string
	tel  telemetry.API
}

func NewPertamina(client *resty.Client, url string, tel telemetry.API) Pertamina {
	assert.NotNil(client, "client")
	assert.NotNil(tel, "telemetry")
	if url == "" {
		url = PertaminaURL
	}
	return Pertamina{
		http: client,
		url:  url,
		tel:  telemetry.NewScopedAPI("providers", tel),
	}
}

func (p Pertamina) Fetch(ctx context.Context) ([]prices.RawPriceRecord, error) {
	doc, err := fetchDocument(ctx, p.http, p.url)
	if err != nil {
		p.tel.ReportBroken(report_pertamina_fetch, err)
		return nil, err
	}
	records := parsePertamina(doc)
	if len(records) == 0 {
		p.tel.ReportWarning(report_pertamina_empty, p.url)
	}
	return records, nil
}

func isFuelName(text string) bool {
	text = strings.ToLower(text)
	for _, fuel := range pertaminaFuels {
		if strings.Contains(text, strings.ToLower(fuel)) {
			return true
		}
	}
	return false
}

// parsePertamina reads every table row whose first cell is a province followed by one
// price cell per fuel, falling back to a card layout when there are no such rows.
func parsePertamina(doc *goquery.Document) []prices.RawPriceRecord {
	records := []prices.RawPriceRecord{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		province := htmlutil.SelectionText(cells.First())
		if province == "" || isFuelName(province) {
			return
		}

		products := map[string]int64{}
		for i := 1; i < cells.Length() && i <= len(pertaminaFuels); i++ {
			price, ok := htmlutil.ParsePrice(htmlutil.SelectionText(cells.Eq(i)))
			if ok && price > minimumPrice {
				products[pertaminaFuels[i-1]] = price
			}
		}
		if len(products) == 0 {
			return
		}

		records = append(records, prices.RawPriceRecord{
			Province: province,
			Products: products,
		})
	})

	if len(records) > 0 {
		return records
	}
	return parsePertaminaCards(doc)
}

var rupiahRegex = regexp.MustCompile(`(?i)Rp[\s.]*(\d+[.,]\d+|\d+)`)

// parsePertaminaCards handles the grid layout, where each card names its province in a
// heading and lists prices in fuel order. A card without a heading inherits the
// province of the previous card.
func parsePertaminaCards(doc *goquery.Document) []prices.RawPriceRecord {
	records := []prices.RawPriceRecord{}
	province := ""

	doc.Find(`[class*="grid"] > div, [class*="row"]`).Each(func(_ int, card *goquery.Selection) {
		text := htmlutil.SelectionText(card)
		matches := rupiahRegex.FindAllString(text, -1)
		if len(matches) == 0 {
			return
		}

		heading := card.Find(`[class*="province"], [class*="wilayah"], h3, h4, strong`).First()
		if heading.Length() > 0 {
			province = htmlutil.SelectionText(heading)
		}
		if province == "" {
			return
		}

		products := map[string]int64{}
		for i, match := range matches {
			if i >= len(pertaminaFuels) {
				break
			}
			price, ok := htmlutil.ParsePrice(match)
			if ok && price > minimumPrice {
				products[pertaminaFuels[i]] = price
			}
		}
		if len(products) == 0 {
			return
		}

		records = append(records, prices.RawPriceRecord{
			Province: province,
			Products: products,
		})
	})

	return records
}
