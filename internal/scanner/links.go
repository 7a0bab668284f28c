package scanner

import "strings"

// FilePrefixes are the namespace names that mark [[File:...]] links.
var FilePrefixes = []string{
	"file", "image", "img", "datei", "bild", "fichier", "archivo", "imagen",
	"immagine", "ficheiro", "imagem", "bestand", "afbeelding", "fil", "plik",
	"soubor", "файл", "изображение", "ファイル", "画像", "文件",
}

// CategoryPrefixes are the namespace names of category links.
var CategoryPrefixes = []string{
	"category", "kategorie", "catégorie", "categoría", "categoria", "categorie",
	"kategori", "kategoria", "категория", "カテゴリ", "分类",
}

// PrefixSet builds a lookup set of lowercased namespace names.
func PrefixSet(prefixes ...[]string) map[string]bool {
	out := make(map[string]bool)
	for _, list := range prefixes {
		for _, p := range list {
			out[strings.ToLower(strings.TrimSpace(p))] = true
		}
	}
	return out
}

// LinkToken is a raw link occurrence. For internal links Inner is the text
// between the brackets and Trail holds letters glued after the closing
// brackets ([[dog]]s). For external links URL and Label are set.
type LinkToken struct {
	Start    int
	End      int
	Inner    string
	Trail    string
	External bool
	URL      string
	Label    string
}

const maxLinkLen = 4096

// MatchLinkAt matches an internal [[...]] or external [scheme://...] link
// starting exactly at i.
func MatchLinkAt(text string, i int) (LinkToken, bool) {
	if strings.HasPrefix(text[i:], "[[") {
		return matchInternal(text, i)
	}
	if strings.HasPrefix(text[i:], "[") {
		return matchExternal(text, i)
	}
	return LinkToken{}, false
}

func matchInternal(text string, i int) (LinkToken, bool) {
	depth := 0
	limit := min(len(text), i+maxLinkLen)
	for j := i; j+1 < limit; {
		switch {
		case text[j] == '[' && text[j+1] == '[':
			depth++
			j += 2
		case text[j] == ']' && text[j+1] == ']':
			depth--
			j += 2
			if depth == 0 {
				tok := LinkToken{Start: i, End: j, Inner: text[i+2 : j-2]}
				k := j
				for k < len(text) && text[k] >= 'a' && text[k] <= 'z' {
					k++
				}
				tok.Trail = text[j:k]
				tok.End = k
				return tok, true
			}
		case text[j] == '\n' && depth == 1 && !strings.Contains(text[i:j], "|"):
			return LinkToken{}, false
		default:
			j++
		}
	}
	return LinkToken{}, false
}

var externalSchemes = []string{"http://", "https://", "ftp://", "//", "mailto:", "news:", "irc://"}

func matchExternal(text string, i int) (LinkToken, bool) {
	rest := text[i+1:]
	ok := false
	for _, s := range externalSchemes {
		if len(rest) >= len(s) && strings.EqualFold(rest[:len(s)], s) {
			ok = true
			break
		}
	}
	if !ok {
		return LinkToken{}, false
	}
	end := strings.IndexAny(rest, "]\n")
	if end < 0 || rest[end] != ']' {
		return LinkToken{}, false
	}
	inner := rest[:end]
	tok := LinkToken{Start: i, End: i + 1 + end + 1, External: true}
	if sp := strings.IndexAny(inner, " \t"); sp >= 0 {
		tok.URL = inner[:sp]
		tok.Label = strings.TrimSpace(inner[sp+1:])
	} else {
		tok.URL = inner
	}
	return tok, true
}

// FindLinks returns the top-level link tokens of text in order.
func FindLinks(text string) []LinkToken {
	var out []LinkToken
	for i := 0; i < len(text); {
		j := strings.IndexByte(text[i:], '[')
		if j < 0 {
			break
		}
		i += j
		if tok, ok := MatchLinkAt(text, i); ok {
			out = append(out, tok)
			i = tok.End
			continue
		}
		i++
	}
	return out
}

// Namespace returns the lowercased namespace prefix of a link target,
// ignoring a leading colon, or "" if there is none.
func Namespace(inner string) string {
	s := strings.TrimLeft(strings.TrimSpace(inner), ":")
	k := strings.IndexByte(s, ':')
	if k <= 0 || k > 24 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s[:k]))
}

// IsFileLink reports whether an internal link's inner text names a file.
func IsFileLink(inner string, prefixes map[string]bool) bool {
	if strings.HasPrefix(strings.TrimSpace(inner), ":") {
		return false
	}
	return prefixes[Namespace(inner)]
}

// FindFileLinks returns the top-level [[File:...]] links of text.
func FindFileLinks(text string, prefixes map[string]bool) []LinkToken {
	var out []LinkToken
	for _, tok := range FindLinks(text) {
		if !tok.External && IsFileLink(tok.Inner, prefixes) {
			tok.End -= len(tok.Trail)
			tok.Trail = ""
			out = append(out, tok)
		}
	}
	return out
}
