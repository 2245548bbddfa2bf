package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  Shell Super \n", expected: "Shell Super"},
		{input: "Jakarta,\n\t Banten", expected: "Jakarta, Banten"},
		{input: "", expected: ""},
	}
	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}

func TestParsePrice(t *testing.T) {
	table := []struct {
		input    string
		expected int64
		ok       bool
	}{
		{input: "Rp12,700", expected: 12700, ok: true},
		{input: "Rp 13.190", expected: 13190, ok: true},
		{input: "-", ok: false},
		{input: "99999999999999999999999", ok: false},
	}
	for _, row := range table {
		price, ok := ParsePrice(row.input)
		require.Equal(t, row.ok, ok, row.input)
		require.Equal(t, row.expected, price, row.input)
	}
}

func TestSelectionText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td> <b>Pertamax</b>&nbsp;Turbo </td></tr></table>`,
	))
	require.NoError(t, err)
	require.Equal(t, "Pertamax Turbo", SelectionText(doc.Find("td")))
}
