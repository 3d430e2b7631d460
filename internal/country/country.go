package country

import "strings"

type entry struct {
	code     string   // ISO 3166-1 alpha-2
	name     string   // canonical display name
	official string   // official long-form name
	alts     []string // alternate spellings and common shorthand
}

var countries = []entry{
	{"AR", "Argentina", "Argentine Republic", nil},
	{"AT", "Austria", "Republic of Austria", nil},
	{"AU", "Australia", "Commonwealth of Australia", nil},
	{"BE", "Belgium", "Kingdom of Belgium", nil},
	{"BR", "Brazil", "Federative Republic of Brazil", []string{"brasil"}},
	{"CA", "Canada", "Canada", nil},
	{"CH", "Switzerland", "Swiss Confederation", nil},
	{"CL", "Chile", "Republic of Chile", nil},
	{"CN", "China", "People's Republic of China", nil},
	{"CO", "Colombia", "Republic of Colombia", nil},
	{"CU", "Cuba", "Republic of Cuba", nil},
	{"CZ", "Czechia", "Czech Republic", []string{"czech republic"}},
	{"DE", "Germany", "Federal Republic of Germany", []string{"deutschland", "west germany", "east germany"}},
	{"DK", "Denmark", "Kingdom of Denmark", nil},
	{"EE", "Estonia", "Republic of Estonia", nil},
	{"ES", "Spain", "Kingdom of Spain", []string{"españa", "espana"}},
	{"FI", "Finland", "Republic of Finland", nil},
	{"FR", "France", "French Republic", nil},
	{"GB", "United Kingdom", "United Kingdom of Great Britain and Northern Ireland", []string{"great britain", "britain", "england", "scotland", "wales", "uk"}},
	{"GR", "Greece", "Hellenic Republic", nil},
	{"HU", "Hungary", "Hungary", nil},
	{"IE", "Ireland", "Republic of Ireland", []string{"eire"}},
	{"IL", "Israel", "State of Israel", nil},
	{"IN", "India", "Republic of India", nil},
	{"IS", "Iceland", "Republic of Iceland", nil},
	{"IT", "Italy", "Italian Republic", []string{"italia"}},
	{"JM", "Jamaica", "Jamaica", nil},
	{"JP", "Japan", "Japan", []string{"nippon"}},
	{"KR", "South Korea", "Republic of Korea", []string{"korea", "korea, republic of"}},
	{"MX", "Mexico", "United Mexican States", []string{"méxico"}},
	{"NG", "Nigeria", "Federal Republic of Nigeria", nil},
	{"NL", "Netherlands", "Kingdom of the Netherlands", []string{"holland", "the netherlands"}},
	{"NO", "Norway", "Kingdom of Norway", nil},
	{"NZ", "New Zealand", "New Zealand", []string{"aotearoa"}},
	{"PL", "Poland", "Republic of Poland", nil},
	{"PT", "Portugal", "Portuguese Republic", nil},
	{"RO", "Romania", "Romania", nil},
	{"RU", "Russia", "Russian Federation", []string{"russian federation", "ussr", "soviet union"}},
	{"SE", "Sweden", "Kingdom of Sweden", nil},
	{"TR", "Turkey", "Republic of Türkiye", []string{"türkiye", "turkiye"}},
	{"UA", "Ukraine", "Ukraine", nil},
	{"US", "United States", "United States of America", []string{"usa", "america", "united states of america", "u.s.", "u.s.a."}},
	{"ZA", "South Africa", "Republic of South Africa", nil},
}

// synonyms maps historical or political names that are not simple alternate
// spellings onto a current canonical name.
var synonyms = map[string]string{
	"czechoslovakia":   "Czechia",
	"yugoslavia":       "Serbia",
	"zaire":            "Democratic Republic of the Congo",
	"burma":            "Myanmar",
	"persia":           "Iran",
	"german democratic republic": "Germany",
	"federal republic of germany": "Germany",
}

// Index maps built at init time.
var (
	byCode map[string]*entry
	byName map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(countries))
	byName = make(map[string]*entry, len(countries)*3)
	for i := range countries {
		e := &countries[i]
		byCode[e.code] = e
		byName[strings.ToLower(e.name)] = e
		if e.official != "" {
			byName[strings.ToLower(e.official)] = e
		}
		for _, alt := range e.alts {
			byName[strings.ToLower(alt)] = e
		}
	}
}

// Resolve maps a two-letter country code to its canonical name. Returns the
// empty string for unknown codes; callers treat that as "unknown", not as an
// error.
func Resolve(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	// XW/XE are the metadata service's "worldwide"/"Europe" pseudo-codes.
	if code == "XW" {
		return "Worldwide"
	}
	if code == "XE" {
		return "Europe"
	}
	if e, ok := byCode[code]; ok {
		return e.name
	}
	return ""
}

// ResolveName maps a free-form country value (code, common name, official
// name, alternate spelling, or historical synonym) to a canonical name. The
// lookup order is fixed: exact code, name table, synonym table, then a
// case-insensitive substring match against the known names. Returns the empty
// string when nothing resolves.
func ResolveName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) == 2 {
		if name := Resolve(value); name != "" {
			return name
		}
	}
	lowered := strings.ToLower(value)
	if e, ok := byName[lowered]; ok {
		return e.name
	}
	if name, ok := synonyms[lowered]; ok {
		return name
	}
	// Last resort: substring match in table order so results stay stable.
	for i := range countries {
		e := &countries[i]
		if strings.Contains(strings.ToLower(e.name), lowered) || strings.Contains(lowered, strings.ToLower(e.name)) {
			return e.name
		}
	}
	return ""
}

// Names returns every canonical country name, for validation of user input.
func Names() []string {
	names := make([]string, 0, len(countries))
	for i := range countries {
		names = append(names, countries[i].name)
	}
	return names
}
