// Package i18n resolves stable message identifiers to localized strings based
// on the request's Accept-Language header. It is an explicitly constructed
// service rather than a process-wide singleton, so handlers and middleware
// receive it as a dependency.
package i18n

import (
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// supported locales; the first entry is the fallback.
var supported = []language.Tag{language.English, language.Turkish}

type Translator struct {
	bundle  *goi18n.Bundle
	matcher language.Matcher
}

func New() (*Translator, error) {
	bundle := goi18n.NewBundle(supported[0])
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, file := range []string{"locales/en.json", "locales/tr.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, err
		}
	}
	return &Translator{
		bundle:  bundle,
		matcher: language.NewMatcher(supported),
	}, nil
}

// Translate resolves messageID against the best match for acceptLanguage
// (an Accept-Language header value, possibly empty). Unknown identifiers are
// returned as-is so a missing catalog entry never hides the error condition.
func (t *Translator) Translate(messageID, acceptLanguage string) string {
	tag, _ := language.MatchStrings(t.matcher, acceptLanguage)
	localizer := goi18n.NewLocalizer(t.bundle, tag.String())
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}
