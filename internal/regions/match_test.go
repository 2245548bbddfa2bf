package regions

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	canonical := Provinces()

	testCases := []struct {
		raw      string
		expectID string
	}{
		{raw: "Jakarta", expectID: "31"},
		{raw: "DKI Jakarta", expectID: "31"},
		{raw: "Daerah Khusus Ibukota Jakarta", expectID: "31"},
		{raw: "Prov. Jawa Barat", expectID: "32"},
		{raw: "JAWA  TIMUR", expectID: "35"},
		{raw: "Daerah Istimewa Yogyakarta", expectID: "34"},
		{raw: "Special Region of Yogyakarta", expectID: "34"},
		{raw: "Special Capital Region of Jakarta", expectID: "31"},
		{raw: "Province of Kepulauan Riau", expectID: "21"},
		{raw: "Province of Maluku Utara", expectID: "82"},
		{raw: "Kep. Bangka Belitung", expectID: "19"},
		{raw: "Kepulauan Riau", expectID: "21"},
		{raw: "Riau", expectID: "14"},
		{raw: "Papua", expectID: "94"},
		{raw: "Papua Barat", expectID: "91"},
		{raw: "Sumatera Utara (Medan)", expectID: "12"},

		{raw: "Jogja", expectID: "34"},
		{raw: "DIY", expectID: "34"},
		{raw: "Jabar", expectID: "32"},
		{raw: "Jatim", expectID: "35"},
		{raw: "Sumut", expectID: "12"},
		{raw: "Kepri", expectID: "21"},
		{raw: "Babel", expectID: "19"},
		{raw: "NTT", expectID: "53"},
		{raw: "Sulsel", expectID: "73"},

		{raw: "Atlantis", expectID: ""},
		{raw: "Data tidak tersedia", expectID: ""},
		{raw: "", expectID: ""},
		{raw: "Provinsi", expectID: ""},
		{raw: "   ", expectID: ""},
	}

	for _, test := range testCases {
		t.Run(test.raw, func(t *testing.T) {
			region := Match(test.raw, canonical)
			require.Equal(t, test.expectID, region.ID)
			if test.expectID == "" {
				require.Equal(t, test.raw, region.Name, "unmatched regions keep the raw name")
				require.False(t, region.Matched())
			}
		})
	}
}

func TestMatchIgnoresCaseAndQualifiers(t *testing.T) {
	canonical := Provinces()

	for _, province := range canonical {
		title := titleCase(province.Name)
		variants := []string{
			province.Name,
			strings.ToLower(province.Name),
			title,
			"Provinsi " + title,
			"Prov. " + province.Name,
			" " + title + " ",
			title + " Province",
			"Province of " + title,
			"Special Region of " + title,
			"PROVINCE OF " + province.Name,
		}
		for _, variant := range variants {
			require.Equal(t, province, Match(variant, canonical), variant)
		}
	}
}

func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func TestNormalizeKeepsProvincesDistinct(t *testing.T) {
	seen := map[string]string{}
	for _, province := range Provinces() {
		normalized := NormalizeName(province.Name)
		require.NotEmpty(t, normalized, province.Name)
		other, exists := seen[normalized]
		require.False(t, exists, "%s and %s both normalize to %s", province.Name, other, normalized)
		seen[normalized] = province.Name
	}
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "jakarta", NormalizeName("Prov. DKI Jakarta"))
	require.Equal(t, "jawabarat", NormalizeName("PROVINSI JAWA-BARAT"))
	require.Equal(t, "kepulauanriau", NormalizeName("Kepulauan Riau"))
	require.Equal(t, "kepulauanriau", NormalizeName("Province of Kepulauan Riau"))
	require.Equal(t, "malukuutara", NormalizeName("Maluku Utara Province"))
	require.Equal(t, "yogyakarta", NormalizeName("DI Yogyakarta"))
	require.Equal(t, "", NormalizeName("Provinsi"))
}

func TestMatchContainmentFollowsListOrder(t *testing.T) {
	canonical := Provinces()

	// jawa barat comes before banten in the directory
	require.Equal(t, "32", Match("Banten & Jawa Barat", canonical).ID)
	require.Equal(t, "32", Match("Jawa Barat, Banten", canonical).ID)

	reversed := make([]Region, len(canonical))
	for i, region := range canonical {
		reversed[len(canonical)-1-i] = region
	}
	require.Equal(t, "36", Match("Jawa Barat, Banten", reversed).ID)
}

func TestMatchExactBeforeContainment(t *testing.T) {
	canonical := []Region{
		{ID: "91", Name: "PAPUA BARAT"},
		{ID: "94", Name: "PAPUA"},
	}
	require.Equal(t, "94", Match("papua", canonical).ID)
	require.Equal(t, "91", Match("Papua Barat Daya", canonical).ID)
}

func TestMatchAliasWithoutTarget(t *testing.T) {
	canonical := []Region{
		{ID: "31", Name: "DKI JAKARTA"},
	}
	region := Match("Jogja", canonical)
	require.Equal(t, Unmatched("Jogja"), region)
}

func TestMatchSimilarity(t *testing.T) {
	canonical := Provinces()

	require.False(t, Match("Jawa Barta", canonical).Matched(), "similarity is disabled by default")

	matcher := NewMatcher(canonical, WithSimilarityThreshold(0.9))
	require.Equal(t, "32", matcher.Match("Jawa Barta").ID)
	require.Equal(t, "12", matcher.Match("Sumatra Utara").ID)
	require.False(t, matcher.Match("Atlantis").Matched())
	require.False(t, matcher.Match("").Matched())
}

func TestZeroMatcher(t *testing.T) {
	var matcher Matcher
	require.Equal(t, Unmatched("Jakarta"), matcher.Match("Jakarta"))
}

func TestMatchConcurrent(t *testing.T) {
	matcher := NewMatcher(Provinces())

	done := make(chan error)
	for i := 0; i < 16; i++ {
		go func() {
			region := matcher.Match("DKI Jakarta")
			if region.ID != "31" {
				done <- fmt.Errorf("unexpected region %v", region)
				return
			}
			done <- nil
		}()
	}
	for i := 0; i < 16; i++ {
		require.NoError(t, <-done)
	}
}
