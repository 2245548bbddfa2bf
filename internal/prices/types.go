package prices

import (
	"bbm-backend/internal/regions"
	"bytes"
	"encoding/json"
	"maps"
	"sort"
	"time"
)

type ProviderKey string

const (
	Pertamina ProviderKey = "pertamina"
	Shell     ProviderKey = "shell"
	BP        ProviderKey = "bp"
	Vivo      ProviderKey = "vivo"
	Mobil     ProviderKey = "mobil"
)

// RawPriceRecord is a single row produced by a provider adapter. Products maps a
// fuel name to its price in rupiah.
type RawPriceRecord struct {
	Province string           `json:"province"`
	Products map[string]int64 `json:"products"`
	Note     string           `json:"note,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// EnrichedPriceRecord is a RawPriceRecord with the region it was matched to.
type EnrichedPriceRecord struct {
	RawPriceRecord
	ProvinceInfo regions.Region `json:"provinceInfo"`
}

func (r EnrichedPriceRecord) clone() EnrichedPriceRecord {
	r.Products = maps.Clone(r.Products)
	return r
}

// ProviderResult is either the records of a provider or the reason it failed.
// It encodes as a JSON array on success and as {"error": ..., "data": []} on failure.
type ProviderResult struct {
	Records []EnrichedPriceRecord
	Error   string
}

func Succeeded(records []EnrichedPriceRecord) ProviderResult {
	if records == nil {
		records = []EnrichedPriceRecord{}
	}
	return ProviderResult{Records: records}
}

func Failed(reason string) ProviderResult {
	if reason == "" {
		reason = "unknown error"
	}
	return ProviderResult{Error: reason}
}

func (r ProviderResult) Failed() bool {
	return r.Error != ""
}

func (r ProviderResult) clone() ProviderResult {
	if r.Failed() {
		return ProviderResult{Error: r.Error}
	}
	records := make([]EnrichedPriceRecord, len(r.Records))
	for i, record := range r.Records {
		records[i] = record.clone()
	}
	return ProviderResult{Records: records}
}

type failedResultJSON struct {
	Error string                `json:"error"`
	Data  []EnrichedPriceRecord `json:"data"`
}

func (r ProviderResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(failedResultJSON{
			Error: r.Error,
			Data:  []EnrichedPriceRecord{},
		})
	}
	records := r.Records
	if records == nil {
		records = []EnrichedPriceRecord{}
	}
	return json.Marshal(records)
}

func (r *ProviderResult) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []EnrichedPriceRecord
		err := json.Unmarshal(data, &records)
		if err != nil {
			return err
		}
		*r = Succeeded(records)
		return nil
	}

	var failed failedResultJSON
	err := json.Unmarshal(data, &failed)
	if err != nil {
		return err
	}
	*r = Failed(failed.Error)
	return nil
}

// Snapshot is one complete aggregation across every configured provider. It is
// never modified after the aggregator returns it.
type Snapshot struct {
	LastUpdated time.Time                      `json:"lastUpdated"`
	Providers   map[ProviderKey]ProviderResult `json:"providers"`
}

// Keys returns the provider keys of the snapshot in sorted order.
func (s Snapshot) Keys() []ProviderKey {
	keys := make([]ProviderKey, 0, len(s.Providers))
	for key := range s.Providers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

// Clone returns a deep copy that shares no maps or slices with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		LastUpdated: s.LastUpdated,
		Providers:   make(map[ProviderKey]ProviderResult, len(s.Providers)),
	}
	for key, result := range s.Providers {
		out.Providers[key] = result.clone()
	}
	return out
}
