// Package diacritics removes vowel points and cantillation marks from
// Hebrew and Arabic-script text.
package diacritics

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripLanguages are the target languages whose output is stripped.
// "iw" is the deprecated code for Hebrew that Google Translate still uses.
var stripLanguages = map[string]bool{
	"he": true,
	"iw": true,
	"ar": true,
	"fa": true,
	"ur": true,
}

// Marks covers Hebrew points and cantillation, and the Arabic harakat,
// Quranic annotation and superscript alef used by Arabic, Persian and Urdu.
var Marks = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0591, Hi: 0x05C7, Stride: 1},
		{Lo: 0x0610, Hi: 0x061A, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
		{Lo: 0x06D6, Hi: 0x06ED, Stride: 1},
	},
}

// ShouldStrip reports whether output for lang is stripped. Region and
// script subtags are ignored, so "ar-EG" behaves like "ar".
func ShouldStrip(lang string) bool {
	base := strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}
	return stripLanguages[base]
}

// Strip decomposes text (NFD), drops every rune in Marks and recomposes
// the remainder (NFC). It is idempotent.
func Strip(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(Marks)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Apply strips every text when lang is in the stripped set and returns
// texts unchanged otherwise. The input slice is never modified.
func Apply(lang string, texts []string) []string {
	if !ShouldStrip(lang) {
		return texts
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = Strip(s)
	}
	return out
}
