package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations suppress a sentence boundary after "<abbr>.".
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true,
	"jr": true, "st": true, "mt": true, "ft": true, "vs": true, "etc": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "bros": true,
	"jan": true, "feb": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
	"no": true, "nos": true, "vol": true, "pp": true, "ca": true, "approx": true,
	"fig": true, "gen": true, "gov": true, "sen": true, "rep": true, "lt": true,
	"col": true, "capt": true, "sgt": true, "cf": true, "ed": true, "eds": true,
	"est": true, "op": true, "cit": true, "ibid": true, "al": true, "rev": true,
	"hon": true, "ave": true, "blvd": true, "rd": true, "univ": true,
	"c": true, "b": true, "d": true, "fl": true, "r": true,
}

// NextSentence returns the sentence that starts at or after pos and the
// offset just past it. A boundary is '.', '!' or '?' (plus trailing quotes
// or brackets) followed by whitespace or end of input, unless the preceding
// token is a known abbreviation, an initial, or the next word starts in
// lowercase. Terminators inside [[links]] never end a sentence.
func NextSentence(text string, pos int) (sentence string, next int, ok bool) {
	for pos < len(text) && isSpace(text[pos]) {
		pos++
	}
	if pos >= len(text) {
		return "", len(text), false
	}
	links := 0
	for i := pos; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '[' && i+1 < len(text) && text[i+1] == '[':
			links++
			i++
			continue
		case c == ']' && i+1 < len(text) && text[i+1] == ']' && links > 0:
			links--
			i++
			continue
		}
		if links > 0 || (c != '.' && c != '!' && c != '?') {
			continue
		}
		j := i + 1
		for j < len(text) && strings.IndexByte(".!?\"')]", text[j]) >= 0 {
			j++
		}
		for j < len(text) && (strings.HasPrefix(text[j:], "”") || strings.HasPrefix(text[j:], "’") || strings.HasPrefix(text[j:], "»")) {
			_, size := utf8.DecodeRuneInString(text[j:])
			j += size
		}
		if j < len(text) && !isSpace(text[j]) {
			continue
		}
		if c == '.' && guarded(text, pos, i, j) {
			continue
		}
		return strings.TrimSpace(text[pos:j]), j, true
	}
	return strings.TrimSpace(text[pos:]), len(text), true
}

// guarded reports whether the '.' at i should not end a sentence.
func guarded(text string, start, i, after int) bool {
	k := i
	for k > start {
		r, size := utf8.DecodeLastRuneInString(text[start:k])
		if !unicode.IsLetter(r) && r != '.' {
			break
		}
		k -= size
	}
	token := text[k:i]
	if token != "" {
		if abbreviations[strings.ToLower(token)] || strings.Contains(token, ".") {
			return true
		}
	}
	for after < len(text) && isSpace(text[after]) {
		after++
	}
	if r, size := utf8.DecodeRuneInString(token); token != "" && size == len(token) && unicode.IsUpper(r) {
		// A lone capital is an initial ("J. Doe"), but I, V and X usually
		// close a regnal or ordinal numeral ("World War I.") unless another
		// initial follows.
		if !strings.ContainsRune("IVX", r) || initialAt(text, after) {
			return true
		}
	}
	if after < len(text) {
		r, _ := utf8.DecodeRuneInString(text[after:])
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// initialAt reports whether text at i reads "X." with X a capital letter.
func initialAt(text string, i int) bool {
	r, size := utf8.DecodeRuneInString(text[i:])
	return unicode.IsUpper(r) && i+size < len(text) && text[i+size] == '.'
}

// SplitSentences splits text into sentences using NextSentence.
func SplitSentences(text string) []string {
	var out []string
	for pos := 0; ; {
		s, next, ok := NextSentence(text, pos)
		if !ok {
			return out
		}
		if s != "" {
			out = append(out, s)
		}
		pos = next
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
