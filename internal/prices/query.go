package prices

import (
	"fmt"
	"strings"
)

// Filter narrows a snapshot down, empty fields don't filter anything. Filters combine
// with AND.
type Filter struct {
	// Provider is matched case-insensitively against the provider keys.
	Provider string
	// ProvinceID keeps records matched to exactly this region id.
	ProvinceID string
	// ProvinceName keeps records whose raw or matched province name contains it or is
	// contained by it, ignoring case.
	ProvinceName string
}

type ProviderNotFoundError struct {
	Provider  string
	Available []ProviderKey
}

func (e *ProviderNotFoundError) Error() string {
	names := make([]string, len(e.Available))
	for i, key := range e.Available {
		names[i] = string(key)
	}
	return fmt.Sprintf("provider not found, available: %s", strings.Join(names, ", "))
}

// LookupProvider resolves a user supplied provider name to a key of the snapshot.
func (s Snapshot) LookupProvider(name string) (ProviderKey, error) {
	normalized := ProviderKey(strings.ToLower(strings.TrimSpace(name)))
	_, ok := s.Providers[normalized]
	if !ok {
		return "", &ProviderNotFoundError{
			Provider:  name,
			Available: s.Keys(),
		}
	}
	return normalized, nil
}

// Query returns a new snapshot holding what passes filter, the input is never
// modified. An unknown provider is a *ProviderNotFoundError.
//
// Failed providers are kept as they are by the region filters so failures stay
// visible in filtered results.
func Query(snapshot Snapshot, filter Filter) (Snapshot, error) {
	provinceId := strings.TrimSpace(filter.ProvinceID)
	provinceName := strings.ToLower(strings.TrimSpace(filter.ProvinceName))

	keys := snapshot.Keys()
	if strings.TrimSpace(filter.Provider) != "" {
		key, err := snapshot.LookupProvider(filter.Provider)
		if err != nil {
			return Snapshot{}, err
		}
		keys = []ProviderKey{key}
	}

	out := Snapshot{
		LastUpdated: snapshot.LastUpdated,
		Providers:   make(map[ProviderKey]ProviderResult, len(keys)),
	}
	for _, key := range keys {
		result := snapshot.Providers[key]
		if result.Failed() {
			out.Providers[key] = result.clone()
			continue
		}

		records := []EnrichedPriceRecord{}
		for _, record := range result.Records {
			if provinceId != "" && record.ProvinceInfo.ID != provinceId {
				continue
			}
			if provinceName != "" && !matchesName(record, provinceName) {
				continue
			}
			records = append(records, record.clone())
		}
		out.Providers[key] = Succeeded(records)
	}

	return out, nil
}

func matchesName(record EnrichedPriceRecord, search string) bool {
	for _, name := range []string{record.Province, record.ProvinceInfo.Name} {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if strings.Contains(name, search) || strings.Contains(search, name) {
			return true
		}
	}
	return false
}
