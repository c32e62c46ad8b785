// Package slug normalizes item titles into stable identifiers and turns
// identifiers back into readable labels when no index entry exists.
package slug

import (
	"strings"
	"unicode"
)

// TestPrefix marks manually injected test identifiers. Rows carrying it
// are excluded from rendered ranking output.
const TestPrefix = "test-"

// Make derives the canonical identifier for a display title: fold
// accented letters to ASCII, lowercase, collapse every non-alphanumeric
// run into a single hyphen, trim leading/trailing hyphens.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	prevHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		r = foldRune(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if unicode.Is(unicode.Mn, r) {
			// combining mark left over from folding, drop it
			continue
		}
		if !prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Loose strips separators from an already-made key so lookups tolerate
// minor normalization drift between the ranking id and the index key.
func Loose(key string) string {
	return strings.ReplaceAll(key, "-", "")
}

// casing holds segments that must not be naively title-cased.
var casing = map[string]string{
	"x":   "X",
	"ps":  "PS",
	"psx": "PSX",
	"ps2": "PS2",
	"ps3": "PS3",
	"ps4": "PS4",
	"ps5": "PS5",
	"wii": "Wii",
	"gba": "GBA",
	"gb":  "GB",
	"c64": "C64",
	"n64": "N64",
}

// Humanize builds a readable label from an identifier so the UI never
// shows a raw slug. Hyphen segments are title-cased except for known
// platform codes, which keep their canonical casing.
func Humanize(id string) string {
	parts := strings.Split(id, "-")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if c, ok := casing[p]; ok {
			out = append(out, c)
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}

// foldRune maps the Latin-1/Latin Extended letters that actually occur
// in game titles onto their ASCII base letter.
func foldRune(r rune) rune {
	switch {
	case r >= 'à' && r <= 'å':
		return 'a'
	case r == 'ç':
		return 'c'
	case r >= 'è' && r <= 'ë':
		return 'e'
	case r >= 'ì' && r <= 'ï':
		return 'i'
	case r == 'ñ':
		return 'n'
	case r >= 'ò' && r <= 'ö':
		return 'o'
	case r >= 'ù' && r <= 'ü':
		return 'u'
	case r == 'ý' || r == 'ÿ':
		return 'y'
	}
	return r
}
