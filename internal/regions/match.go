package regions

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// qualifiers are administrative words that don't identify a region by themselves.
// The English forms take their trailing "of" with them. "kepulauan" is absent,
// stripping it turns "Kepulauan Riau" into "Riau".
var qualifiers = regexp.MustCompile(
	`\b(daerah khusus ibu ?kota|daerah istimewa|(?:special capital region|special region|capital district|province)(?: of)?|provinsi|propinsi|prov|dki|di)\b`,
)

// NormalizeName case-folds name, strips administrative qualifiers and every
// non-alphanumeric rune. "Prov. DKI Jakarta" and "JAKARTA" both become "jakarta".
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = qualifiers.ReplaceAllString(name, " ")

	var out strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			out.WriteRune(c)
		}
	}
	return strings.TrimSpace(out.String())
}

type alias struct {
	// key is searched for inside the normalized raw name
	key string
	// target is the normalized canonical name the key resolves to
	target string
}

// aliases cover colloquial names and abbreviations that neither exact nor
// containment matching can resolve. Order is significant, first hit wins.
var aliases = []alias{
	{key: "jkt", target: "jakarta"},
	{key: "jogjakarta", target: "yogyakarta"},
	{key: "jogja", target: "yogyakarta"},
	{key: "yogya", target: "yogyakarta"},
	{key: "diy", target: "yogyakarta"},
	{key: "jabar", target: "jawabarat"},
	{key: "jateng", target: "jawatengah"},
	{key: "jatim", target: "jawatimur"},
	{key: "sumut", target: "sumaterautara"},
	{key: "sumbar", target: "sumaterabarat"},
	{key: "sumsel", target: "sumateraselatan"},
	{key: "kepri", target: "kepulauanriau"},
	{key: "babel", target: "kepulauanbangkabelitung"},
	{key: "bangka", target: "kepulauanbangkabelitung"},
	{key: "ntb", target: "nusatenggarabarat"},
	{key: "ntt", target: "nusatenggaratimur"},
	{key: "kalbar", target: "kalimantanbarat"},
	{key: "kalteng", target: "kalimantantengah"},
	{key: "kalsel", target: "kalimantanselatan"},
	{key: "kaltim", target: "kalimantantimur"},
	{key: "kaltara", target: "kalimantanutara"},
	{key: "sulut", target: "sulawesiutara"},
	{key: "sulteng", target: "sulawesitengah"},
	{key: "sulsel", target: "sulawesiselatan"},
	{key: "sultra", target: "sulawesitenggara"},
	{key: "sulbar", target: "sulawesibarat"},
	{key: "malut", target: "malukuutara"},
}

type matchConfig struct {
	similarityThreshold float64
}

type MatchOption func(cfg *matchConfig)

// WithSimilarityThreshold enables a last-resort Jaro-Winkler pass: the most similar
// canonical name scoring at least threshold (0..1] is returned. A threshold <= 0
// disables the pass, which is the default.
func WithSimilarityThreshold(threshold float64) MatchOption {
	return func(cfg *matchConfig) {
		cfg.similarityThreshold = threshold
	}
}

// Matcher resolves free-text region names against a canonical list. The zero
// value matches nothing. It is safe for concurrent use since it is never mutated.
type Matcher struct {
	canonical  []Region
	normalized []string
	cfg        matchConfig
}

// NewMatcher precomputes the normalized canonical names, canonical order is kept
// since it breaks ties between containment matches.
func NewMatcher(canonical []Region, opts ...MatchOption) Matcher {
	m := Matcher{
		canonical:  canonical,
		normalized: make([]string, len(canonical)),
	}
	for _, opt := range opts {
		opt(&m.cfg)
	}
	for i, region := range canonical {
		m.normalized[i] = NormalizeName(region.Name)
	}
	return m
}

// Match is NewMatcher(canonical, opts...).Match(raw).
func Match(raw string, canonical []Region, opts ...MatchOption) Region {
	return NewMatcher(canonical, opts...).Match(raw)
}

// Match returns the canonical region for raw, or Unmatched(raw). It never fails.
//
// Passes, each over the whole list in order: exact normalized equality, containment
// in either direction, the alias table, and optionally similarity.
//
// note: containment can produce false positives when a short canonical name appears
// inside an unrelated label, this is kept as is.
func (m Matcher) Match(raw string) Region {
	normalized := NormalizeName(raw)
	if normalized == "" {
		return Unmatched(raw)
	}

	for i, candidate := range m.normalized {
		if candidate != "" && candidate == normalized {
			return m.canonical[i]
		}
	}

	for i, candidate := range m.normalized {
		if candidate == "" {
			continue
		}
		if strings.Contains(normalized, candidate) || strings.Contains(candidate, normalized) {
			return m.canonical[i]
		}
	}

	for _, a := range aliases {
		if !strings.Contains(normalized, a.key) {
			continue
		}
		region, ok := m.byTarget(a.target)
		if ok {
			return region
		}
	}

	if m.cfg.similarityThreshold > 0 {
		bestScore := 0.0
		best := -1
		for i, candidate := range m.normalized {
			if candidate == "" {
				continue
			}
			score := matchr.JaroWinkler(normalized, candidate, false)
			if score > bestScore {
				bestScore = score
				best = i
			}
		}
		if best >= 0 && bestScore >= m.cfg.similarityThreshold {
			return m.canonical[best]
		}
	}

	return Unmatched(raw)
}

func (m Matcher) byTarget(target string) (Region, bool) {
	for i, candidate := range m.normalized {
		if candidate == target {
			return m.canonical[i], true
		}
	}
	for i, candidate := range m.normalized {
		if candidate != "" && strings.Contains(candidate, target) {
			return m.canonical[i], true
		}
	}
	return Region{}, false
}
