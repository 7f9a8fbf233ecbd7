package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		"Completed":              "Completado",
		"No estimate":            "Sin estimación",
		"1 month":                "1 mes",
		"%d months":              "%d meses",
		"1 year":                 "1 año",
		"%d years":               "%d años",
		"1 year and %d months":   "1 año y %d meses",
		"%d years and %d months": "%d años y %d meses",
		"/month":                 "/mes",
	},
	language.English: {
		"Completed":              "Completed",
		"No estimate":            "No estimate",
		"1 month":                "1 month",
		"%d months":              "%d months",
		"1 year":                 "1 year",
		"%d years":               "%d years",
		"1 year and %d months":   "1 year and %d months",
		"%d years and %d months": "%d years and %d months",
		"/month":                 "/mo",
	},
}

var monthNames = map[string][12]string{
	"es": {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

func init() {
	for tag, msgs := range translations {
		for key, msg := range msgs {
			_ = message.SetString(tag, key, msg)
		}
	}
}

func monthAbbrev(lang string, m time.Month) string {
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames["en"]
	}
	return names[m-1]
}
