package railway

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StationAliases maps a canonical station name to the spellings and
// transliterations people and search results use for it.
var StationAliases = map[string][]string{
	"রাজবাড়ী":         {"rajbari", "রাজবাড়ি", "রাজবাড়ী স্টেশন"},
	"সূর্যনগর":         {"surjonagar", "suryanagar", "সুর্যনগর"},
	"বেলগাছি":          {"belgachi", "বেলগাছী"},
	"কালুখালী জংশন":    {"kalukhali", "কালুখালী", "কালুখালি"},
	"পাংশা":            {"pangsha", "pansha", "পাংসা"},
	"গোয়ালন্দ ঘাট":    {"goalanda", "goalundo", "গোয়ালন্দ"},
	"ফরিদপুর":          {"faridpur"},
	"আমিরাবাদ":         {"amirabad"},
	"ভাঙ্গা জংশন":      {"bhanga", "ভাঙ্গা", "ভাংগা"},
	"পদ্মা সেতু":       {"padma bridge", "padma setu", "পদ্মা ব্রিজ"},
	"মাওয়া":           {"mawa"},
	"শিবচর":            {"shibchar"},
	"ঢাকা":             {"dhaka", "কমলাপুর", "kamalapur"},
	"কুষ্টিয়া":        {"kushtia", "কুষ্টিয়া কোর্ট"},
	"পোড়াদহ জংশন":     {"poradah", "পোড়াদহ"},
	"খুলনা":            {"khulna"},
	"যশোর":             {"jessore", "jashore"},
	"রাজশাহী":          {"rajshahi"},
	"মধুখালী":          {"madhukhali", "মধুখালি"},
	"ভাটিয়াপাড়া ঘাট": {"bhatiapara", "ভাটিয়াপাড়া"},
}

var foldedAliases = buildAliasIndex(StationAliases)

func buildAliasIndex(table map[string][]string) map[string][]string {
	idx := make(map[string][]string, len(table))
	for canonical, aliases := range table {
		key := fold(canonical)
		for _, a := range aliases {
			if f := fold(a); f != "" {
				idx[key] = append(idx[key], f)
			}
		}
	}
	return idx
}

// bengaliVariants folds spellings that differ only by a vowel length or
// nasal sign.
var bengaliVariants = strings.NewReplacer(
	"ী", "ি",
	"ং", "ঙ",
	"ৎ", "ত",
)

// fold normalizes text for matching: lower case, no combining marks, no
// format characters, no spaces or punctuation.
func fold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.In(unicode.Cf)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = bengaliVariants.Replace(strings.ToLower(out))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, out)
}

// SplitRoute splits a comma separated route into trimmed station names.
func SplitRoute(route string) []string {
	parts := strings.Split(route, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MatchStation returns the first station of route, in route order, whose
// name or a registered alias appears in text. ok is false when nothing
// matches, which means the position is unknown.
func MatchStation(text, route string) (station string, ok bool) {
	haystack := fold(text)
	if haystack == "" {
		return "", false
	}

	for _, st := range SplitRoute(route) {
		key := fold(st)
		if key != "" && strings.Contains(haystack, key) {
			return st, true
		}
		for _, alias := range foldedAliases[key] {
			if strings.Contains(haystack, alias) {
				return st, true
			}
		}
	}
	return "", false
}
