package utils

import (
	"regexp"
	"sort"
	"strings"
)

// specializationAliases maps common abbreviations and lay spellings to the
// canonical specialization wording. Matching is case-insensitive on word
// boundaries.
var specializationAliases = map[string]string{
	"o&g":         "obstetrics and gynaecology",
	"obgyn":       "obstetrics and gynaecology",
	"ob/gyn":      "obstetrics and gynaecology",
	"gynecology":  "gynaecology",
	"ent":         "ear nose and throat",
	"paeds":       "paediatrics",
	"peds":        "paediatrics",
	"pediatrics":  "paediatrics",
	"a&e":         "emergency medicine",
	"gp":          "general medicine",
	"derm":        "dermatology",
	"ortho":       "orthopaedics",
	"orthopedics": "orthopaedics",
	"physio":      "physiotherapy",
	"optometry":   "ophthalmology",
}

// specializationTypos fixes spellings that show up repeatedly in scraped and
// user-entered records.
var specializationTypos = map[string]string{
	"cardiolgy":    "cardiology",
	"opthalmology": "ophthalmology",
	"opthamology":  "ophthalmology",
	"padiatrics":   "paediatrics",
	"surgury":      "surgery",
	"denistry":     "dentistry",
}

var aliasPatterns = buildAliasPatterns()

type aliasPattern struct {
	re       *regexp.Regexp
	expanded string
}

func buildAliasPatterns() []aliasPattern {
	merged := make(map[string]string, len(specializationAliases)+len(specializationTypos))
	for alias, canonical := range specializationAliases {
		merged[alias] = canonical
	}
	for typo, correct := range specializationTypos {
		merged[typo] = correct
	}

	// Longest first so "ob/gyn" wins over "gyn" style prefixes.
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	patterns := make([]aliasPattern, 0, len(keys))
	for _, k := range keys {
		patterns = append(patterns, aliasPattern{
			re:       regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`),
			expanded: merged[k],
		})
	}
	return patterns
}

// NormalizeSpecialization maps one specialization label to its canonical
// title-cased form. Unknown labels pass through with whitespace collapsed
// and title casing applied.
func NormalizeSpecialization(value string) string {
	trimmed := strings.Join(strings.Fields(value), " ")
	if trimmed == "" {
		return ""
	}

	for _, p := range aliasPatterns {
		trimmed = p.re.ReplaceAllString(trimmed, p.expanded)
	}

	return titleCase(trimmed)
}

// NormalizeSpecializations canonicalizes a list, dropping empties and
// duplicates while preserving first-seen order.
func NormalizeSpecializations(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))

	for _, v := range values {
		normalized := NormalizeSpecialization(v)
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

var lowercaseConnectors = map[string]bool{
	"and": true, "or": true, "the": true, "a": true, "an": true,
	"of": true, "in": true, "at": true, "by": true, "to": true,
	"for": true, "with": true, "without": true,
}

func titleCase(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		if i > 0 && lowercaseConnectors[word] {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
