package providers

import (
	"bbm-backend/internal/prices"
	"context"
	"maps"
)

const estimateNote = "Harga estimasi (Static Data)"

// StaticConfig describes a provider without a scrapable price list.
type StaticConfig struct {
	// Note is attached to every record, defaults to the estimate note.
	Note    string                  `json:"note"`
	Records []prices.RawPriceRecord `json:"records"`
}

// Static serves a fixed price table.
type Static struct {
	records []prices.RawPriceRecord
}

func NewStatic(config StaticConfig) Static {
	note := config.Note
	if note == "" {
		note = estimateNote
	}
	records := make([]prices.RawPriceRecord, len(config.Records))
	for i, record := range config.Records {
		record.Products = maps.Clone(record.Products)
		if record.Note == "" {
			record.Note = note
		}
		records[i] = record
	}
	return Static{records: records}
}

func (s Static) Fetch(ctx context.Context) ([]prices.RawPriceRecord, error) {
	out := make([]prices.RawPriceRecord, len(s.records))
	for i, record := range s.records {
		record.Products = maps.Clone(record.Products)
		out[i] = record
	}
	return out, nil
}

func sameProducts(provinces []string, products map[string]int64) []prices.RawPriceRecord {
	records := make([]prices.RawPriceRecord, len(provinces))
	for i, province := range provinces {
		records[i] = prices.RawPriceRecord{
			Province: province,
			Products: maps.Clone(products),
		}
	}
	return records
}

// Vivo has no price page, these are estimates.
func Vivo() Static {
	return NewStatic(StaticConfig{
		Records: sameProducts(
			[]string{"DKI Jakarta", "Banten", "Jawa Barat"},
			map[string]int64{
				"Revvo 90": 12090,
				"Revvo 92": 12700,
				"Revvo 95": 13500,
			},
		),
	})
}

// Mobil (Exxon) doesn't list its prices clearly, these are estimates.
func Mobil() Static {
	return NewStatic(StaticConfig{
		Records: sameProducts(
			[]string{"DKI Jakarta", "Banten", "Jawa Barat", "Jawa Timur"},
			map[string]int64{"Gasoline 92": 12700},
		),
	})
}
