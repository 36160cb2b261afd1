package i18n

import (
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.Vietnamese, language.English}

// Localizer picks a language for a request and formats messages in it.
type Localizer struct {
	fallback language.Tag
	matcher  language.Matcher
	catalog  *catalog.Builder
}

// NewLocalizer creates a Localizer whose default language is defaultLocale.
// Unsupported or unparsable locales fall back to Vietnamese.
func NewLocalizer(defaultLocale string) *Localizer {
	l := &Localizer{
		fallback: language.Vietnamese,
		matcher:  language.NewMatcher(supported),
	}
	if tag, err := language.Parse(defaultLocale); err == nil {
		if _, idx, conf := l.matcher.Match(tag); conf != language.No {
			l.fallback = supported[idx]
		}
	} else if defaultLocale != "" {
		log.Printf("Unknown locale %q, using %s", defaultLocale, l.fallback)
	}

	b, err := newCatalog(l.fallback)
	if err != nil {
		// The translations are static; a failure here is a programming error.
		panic(err)
	}
	l.catalog = b
	return l
}

// Default returns the language used when a request expresses no preference.
func (l *Localizer) Default() language.Tag {
	return l.fallback
}

// Match resolves an Accept-Language header to a supported language.
func (l *Localizer) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return l.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.fallback
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return l.fallback
	}
	return supported[idx]
}

// Printer returns a printer for the language selected by acceptLanguage.
func (l *Localizer) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(l.Match(acceptLanguage), message.Catalog(l.catalog))
}

// Message formats key in the language selected by acceptLanguage.
func (l *Localizer) Message(acceptLanguage string, key Key, args ...any) string {
	return l.Printer(acceptLanguage).Sprintf(string(key), args...)
}
