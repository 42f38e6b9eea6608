// Package i18n resolves the viewer's locale and the formats derived from it.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.MustParse("pt-BR"),
}

var tagMatcher = language.NewMatcher(supportedTags)

// strftime date layouts per supported tag.
var datePatterns = map[language.Tag]string{
	language.AmericanEnglish:     "%D",
	language.BritishEnglish:      "%d/%m/%y",
	language.German:              "%d.%m.%y",
	language.French:              "%d/%m/%y",
	language.MustParse("pt-BR"): "%d/%m/%y",
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.AmericanEnglish
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// DatePattern returns the strftime date layout for tag.
func DatePattern(tag language.Tag) string {
	if p, ok := datePatterns[Match(tag)]; ok {
		return p
	}
	return datePatterns[Default()]
}

// Match maps tag onto the closest supported tag.
func Match(tag language.Tag) language.Tag {
	_, idx, conf := tagMatcher.Match(tag)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// ResolveTag determines the best language tag for the request: the lang
// query parameter wins over Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return Match(tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := tagMatcher.Match(tags...)
			if conf != language.No {
				return supportedTags[idx]
			}
		}
	}
	return Default()
}
