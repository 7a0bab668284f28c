package templates

import (
	"strings"

	"github.com/dgallion1/wikidoc/internal/doctree"
)

type family func(*Resolver, Params) Result

// families is the closed set of named template families. It is filled in
// init because the handlers reach back into the resolver.
var families map[string]family

func init() {
	families = map[string]family{
		// dates and ages
		"birth date":                    dateFamily,
		"death date":                    dateFamily,
		"start date":                    dateFamily,
		"end date":                      dateFamily,
		"film date":                     filmDate,
		"birth date and age":            birthDateAndAge,
		"death date and age":            deathDateAndAge,
		"start date and age":            startDateAndAge,
		"birth year and age":            birthYearAndAge,
		"death year and age":            deathYearAndAge,
		"age":                           age,
		"age in years and days":         ageLong,
		"age in years, months and days": ageLong,
		"date":                          date,
		"dts":                           date,
		"currentyear":                   current,
		"currentmonth":                  current,
		"currentmonthname":              current,
		"currentday":                    current,
		"currentdayname":                current,
		"as of":                         asOf,
		"decade":                        decade,
		"circa":                         circa,
		"floruit":                       floruit,
		"marriage":                      marriage,

		"coord": coord,

		// sports
		"goal":               goal,
		"fs player":          fsPlayer,
		"sports table":       sportsTable,
		"winning percentage": winningPercentage,
		"flag":               flag,
		"flagicon":           flagIcon,
		"flagathlete":        flagAthlete,

		// money
		"currency": currency,

		// links, transit and ships
		"url":                 urlFamily,
		"official website":    officialWebsite,
		"interlanguage link":  interlanguageLink,
		"section link":        sectionLink,
		"main":                hatnote,
		"see also":            hatnote,
		"further":             hatnote,
		"about":               hatnote,
		"for":                 hatnote,
		"distinguish":         hatnote,
		"other uses":          hatnote,
		"redirect":            hatnote,
		"hatnote":             hatnote,
		"ship":                ship,
		"sclass":              shipClass,

		// text and math
		"lc":         textCase,
		"uc":         textCase,
		"lcfirst":    textCase,
		"ucfirst":    textCase,
		"title case": textCase,
		"trunc":      trunc,
		"plural":     plural,
		"sic":        sic,
		"replace":    replace,
		"formatnum":  formatNum,
		"round":      round,
		"frac":       frac,
		"convert":    convert,
		"val":        val,
		"max":        maxMin,
		"min":        maxMin,
		"radic":      radic,
		"percentage": percentage,
		"ordinal":    ordinal,
		"nihongo":    nihongo,
		"transl":     transl,
		"quote":      quote,
		"sort name":  sortName,
		"gaps":       gaps,
		"#if":        parserIf,
		"#ifeq":      parserIfEq,
		"#switch":    parserSwitch,

		// lists
		"hlist":                   inlineList,
		"flatlist":                blockList,
		"plainlist":               blockList,
		"unbulleted list":         inlineList,
		"bulleted list":           inlineList,
		"ordered list":            orderedList,
		"collapsible list":        collapsibleList,
		"comma separated entries": inlineList,

		"citation":          citation,
		"short description": shortDescription,
	}
	for name := range currencySymbols {
		families[name] = currency
	}
	for prefix := range shipPrefixes {
		families[prefix] = shipPrefix
	}
	for name := range stationSuffixes {
		families[name] = station
	}
	for name := range maintenance {
		families[name] = maintenanceRecord
	}
}

// prefixFamily dispatches the families recognized by name shape rather than
// exact name.
func prefixFamily(name string) family {
	switch {
	case strings.HasPrefix(name, "cite"):
		return citation
	case strings.HasPrefix(name, "lang-"), strings.HasPrefix(name, "ipa-"), strings.HasPrefix(name, "ipa "):
		return firstParam
	case strings.Contains(name, "bracket") && name != "bracket":
		return bracket
	case strings.HasSuffix(name, "-stub"), strings.HasPrefix(name, "pp-"):
		return maintenanceRecord
	}
	return nil
}

func firstParam(_ *Resolver, p Params) Result {
	return Result{Text: p.Pos(0)}
}

func withRecord(text string, rec doctree.Record) Result {
	return Result{Text: text, Collected: Collected{Records: []doctree.Record{rec}}}
}

// maintenance templates carry no prose; they are kept as records.
var maintenance = map[string]bool{
	"multiple issues": true, "more citations needed": true, "unreferenced": true,
	"update": true, "cleanup": true, "use dmy dates": true, "use mdy dates": true,
	"engvarb": true, "use british english": true, "use american english": true,
	"citation style": true, "no footnotes": true, "orphan": true, "peacock": true,
	"tone": true, "original research": true, "technical": true,
	"expand section": true, "coi": true, "primary sources": true,
	"one source": true, "notability": true, "advert": true, "pov": true,
	"dead end": true, "underlinked": true, "overlinked": true, "copy edit": true,
	"good article": true, "featured article": true, "italic title": true,
	"pp": true, "pp-protected": true, "authority control": true, "portal": true,
}

func maintenanceRecord(_ *Resolver, p Params) Result {
	return withRecord("", doctree.Record{Kind: doctree.RecordMaintenance, Template: p.Name, Params: p.flat()})
}

func shortDescription(_ *Resolver, p Params) Result {
	text := strings.TrimSpace(p.Pos(0))
	if text == "" || strings.EqualFold(text, "none") {
		return Result{}
	}
	return withRecord("", doctree.Record{Kind: doctree.RecordShortDescription, Template: p.Name, Text: text})
}

// flat returns the named parameters, or nil when there are none.
func (p Params) flat() map[string]string {
	if len(p.Named) == 0 {
		return nil
	}
	out := make(map[string]string, len(p.Named))
	for k, v := range p.Named {
		out[k] = v
	}
	return out
}
