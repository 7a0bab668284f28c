package templates

import "strings"

// currencySymbols maps currency template names to the prefix they print.
var currencySymbols = map[string]string{
	"us$": "US$", "£": "£", "€": "€", "¥": "¥", "₹": "₹", "aud": "A$",
	"cad": "CA$", "nzd": "NZ$", "hkd": "HK$", "sgd": "S$", "rmb": "CN¥",
	"chf": "CHF ", "brl": "R$", "krw": "₩", "rub": "₽", "₱": "₱", "php": "₱",
	"zar": "R", "sek": "kr ", "nok": "kr ", "dkk": "kr ", "mxn": "Mex$",
	"ils": "₪", "try": "₺", "pln": "zł ", "thb": "฿", "idr": "Rp ",
	"ngn": "₦", "egp": "E£", "pkr": "Rs ", "bdt": "৳", "vnd": "₫",
}

// currencyCodes are the ISO codes accepted by {{currency|amount|code}}.
var currencyCodes = map[string]string{
	"usd": "$", "gbp": "£", "eur": "€", "jpy": "¥", "inr": "₹", "aud": "A$",
	"cad": "CA$", "cny": "CN¥", "chf": "CHF ", "brl": "R$", "krw": "₩",
	"rub": "₽", "mxn": "Mex$",
}

// currency renders money templates: {{US$|1234567}} or
// {{currency|1234567|USD}}.
func currency(_ *Resolver, p Params) Result {
	amount := p.Pos(0)
	if amount == "" {
		return Result{}
	}
	if p.Name != "currency" {
		return Result{Text: FormatCurrency(amount, currencySymbols[p.Name], "")}
	}
	code := strings.ToUpper(strings.TrimSpace(p.Get("code")))
	if code == "" {
		code = strings.ToUpper(strings.TrimSpace(p.Pos(1)))
	}
	if code == "" {
		code = "USD"
	}
	if sym, ok := currencyCodes[strings.ToLower(code)]; ok {
		return Result{Text: FormatCurrency(amount, sym, "")}
	}
	return Result{Text: FormatCurrency(amount, "", code)}
}
