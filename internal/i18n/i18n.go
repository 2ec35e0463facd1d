// Package i18n translates user-facing CLI text. A Translator is built once
// and passed to whoever prints.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{
	language.SimplifiedChinese,
	language.English,
}

var languageNames = map[language.Tag]string{
	language.SimplifiedChinese: "zh_CN",
	language.English:           "en",
}

type Translator struct {
	catalog catalog.Catalog
	matcher language.Matcher
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for lang ("zh_CN", "en", "en-US", ...). Languages
// without a translation fall back to Simplified Chinese.
func New(lang string) *Translator {
	t := &Translator{
		catalog: buildCatalog(),
		matcher: language.NewMatcher(supported),
	}
	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active language.
func (t *Translator) SetLanguage(lang string) {
	tag := supported[0]
	if parsed, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")); err == nil {
		_, idx, _ := t.matcher.Match(parsed)
		tag = supported[idx]
	}
	t.tag = tag
	t.printer = message.NewPrinter(tag, message.Catalog(t.catalog))
}

// Language returns the active language as zh_CN or en.
func (t *Translator) Language() string {
	return languageNames[t.tag]
}

// T formats the message registered under key. Unknown keys come back as is.
func (t *Translator) T(key string, args ...any) string {
	if _, ok := messages[key]; !ok {
		return key
	}
	return t.printer.Sprintf(key, args...)
}

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(supported[0]))
	for key, text := range messages {
		if err := builder.SetString(language.SimplifiedChinese, key, text.zh); err != nil {
			panic(err)
		}
		if err := builder.SetString(language.English, key, text.en); err != nil {
			panic(err)
		}
	}
	return builder
}
