package templates

// aliases map alternative template names onto the canonical family name.
var aliases = map[string]string{
	"bda": "birth date and age", "dob": "birth date", "birth-date": "birth date",
	"birthdate": "birth date", "birth date and age2": "birth date and age",
	"dda": "death date and age", "death-date": "death date", "deathdate": "death date",
	"death-date and age": "death date and age", "start-date": "start date",
	"end-date": "end date", "start date and years ago": "start date and age",
	"age in years": "age", "asof": "as of", "cvt": "convert",
	"ubl": "unbulleted list", "ublist": "unbulleted list", "unbullet": "unbulleted list",
	"unbulleted": "unbulleted list", "blist": "bulleted list", "bulleted": "bulleted list",
	"olist": "ordered list", "flat list": "flatlist", "plain list": "plainlist",
	"cslist": "comma separated entries", "comma-separated entries": "comma separated entries",
	"cn": "citation needed", "fact": "citation needed", "citeneeded": "citation needed",
	"seealso": "see also", "see": "see also", "main article": "main", "details": "further",
	"further information": "further", "coor d": "coord", "coor dms": "coord",
	"coor dm": "coord", "coords": "coord", "ill": "interlanguage link",
	"slink": "section link", "official": "official website",
	"official url": "official website", "url link": "url", "stnlnk": "stn",
	"station link": "stn", "sc": "sclass", "sclass-": "sclass", "sclass2": "sclass",
	"titlecase": "title case", "str left": "trunc", "fraction": "frac",
	"sqrt": "radic", "percent": "percentage", "pct": "percentage",
	"winpct": "winning percentage", "win pct": "winning percentage",
	"fb goal": "goal", "football squad player": "fs player", "fs2 player": "fs player",
	"fs player2": "fs player", "nat fs player": "fs player", "nat fs g player": "fs player",
	"nihongo2": "nihongo", "translit": "transl", "transliteration": "transl",
	"short desc": "short description", "shortdesc": "short description",
	"flagcountry": "flag", "flagu": "flag", "flagdeco": "flagicon",
	"married": "marriage", "c.": "circa", "fl.": "floruit", "fl": "floruit",
	"sfnp": "sfn", "sfnm": "sfn", "rp": "sfn", "efn-lr": "efn", "efn-ua": "efn",
	"refn": "efn", "notetag": "efn",
	"refimprove": "more citations needed", "more sources": "more citations needed",
	"unsourced": "unreferenced", "update after": "update",
	"us dollar": "us$", "usd": "us$", "gbp": "£", "pound sterling": "£",
	"eur": "€", "euro amount": "€", "jpy": "¥", "yen": "¥", "inr": "₹",
	"indian rupee": "₹", "a$": "aud", "ca$": "cad", "cny": "rmb", "renminbi": "rmb",
	"ordinal number": "ordinal", "mvar": "math", "quotation": "quote", "cquote": "quote",
	"blockquote": "quote", "keypress": "key press", "sortname": "sort name",
	"small caps": "smallcaps", "hover title": "tooltip", "abbrlink": "abbr",
	"ipac-en": "ipac", "ipac-es": "ipac", "ipa audio link": "audio",
}

// symbols are fixed replacements.
var symbols = map[string]string{
	"!": "|", "=": "=", "!!": "||", "!(": "[", ")!": "]", "((": "{{", "))": "}}",
	"ndash": "–", "mdash": "—", "snd": " – ", "spnd": " – ", "sndash": " – ",
	"spaced ndash": " – ", "spaced en dash": " – ", "dash": " – ", "emdash": "—",
	"spaced mdash": " — ", "nbsp": " ", "thinsp": " ", "·": " · ", "dot": " · ",
	"middot": "·", "bull": " • ", "bullet": " • ", "1/2": "1⁄2", "1/4": "1⁄4",
	"3/4": "3⁄4", "pi": "π", "deg": "°", "degree": "°", "times": "×", "minus": "−",
	"plusminus": "±", "±": "±", "sect": "§", "section sign": "§",
	"yes": "Yes", "no": "No", "y": "Yes", "n": "No", "aye": "Yes", "nay": "No",
	"tick": "✓", "check mark": "✓", "cross": "✗", "xmark": "✗", "okay": "Neutral",
	"gold1": "1st", "silver2": "2nd", "bronze3": "3rd", "won": "Won", "lost": "Lost",
	"draw": "Draw", "tba": "TBA", "tbd": "TBD", "n/a": "N/A", "na": "N/A",
	"dunno": "?", "unknown": "Unknown", "free": "Free", "nonfree": "Non-free",
	"included": "Yes", "dagger": "†", "double dagger": "‡", "ell": "ℓ",
	"break": " ", "br": " ", "•": " • ", "en dash": "–", "em dash": "—",
	"heart": "♥", "star": "★", "female": "♀", "male": "♂",
}

// zeroIndex templates render their first positional parameter verbatim.
var zeroIndex = map[string]bool{
	"nowrap": true, "nobr": true, "small": true, "smaller": true, "big": true,
	"larger": true, "midsize": true, "nobold": true, "noitalic": true,
	"center": true, "centre": true, "sub": true, "sup": true, "em": true,
	"strong": true, "code": true, "kbd": true, "mono": true, "samp": true,
	"var": true, "dfn": true, "abbr": true, "tooltip": true, "visible anchor": true,
	"vanchor": true, "linktext": true, "by": true, "baseball year": true,
	"ny": true, "smallcaps": true, "not a typo": true, "proper name": true,
	"as written": true, "var serif": true, "math": true, "ipa": true,
	"key press": true, "angle bracket": true, "serif": true, "nowiki": true,
	"sans-serif": true, "uppercase": true, "allcaps": true,
	"highlight": true, "underline": true, "u": true, "strikethrough": true,
	"s": true, "nobreak": true, "pslink": true, "fy": true, "football season": true,
	"tl": true, "tlx": true, "xt": true, "!xt": true, "notatypo": true,
	"bracket": true, "lit": true,
}

// easyInline templates render one positional parameter (0-based index).
var easyInline = map[string]int{
	"lang": 1, "script": 1, "resize": 1, "font color": 1, "color": 1,
	"colour": 1, "sort": 1, "hs": 1, "wikt-lang": 1, "lang rtl": 1,
	"audio": 1, "ship prefix": 0, "mlb": 1, "nfl": 1, "nhl": 1, "nba": 1,
	"fontcolor": 1, "text color": 1, "coloured link": 1, "colored link": 1,
	"rtl-lang": 1, "ltr": 0, "rtl": 0, "ipa-all": 0, "pronunciation": 1,
}

// pronouns pass through as their own name.
var pronouns = []string{
	"he", "she", "they", "him", "her", "them", "his", "hers", "their",
	"he or she", "his or her", "him or her", "they/them", "xe", "ze",
}
