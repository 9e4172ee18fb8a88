package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.toml
var localeFS embed.FS

// messageFiles are loaded in order; the first is the fallback language
var messageFiles = []string{"active.en.toml", "active.zh.toml"}

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

// Bundle holds all translation files
var bundle *i18n.Bundle

func init() {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, name := range messageFiles {
		data, err := localeFS.ReadFile(name)
		if err != nil {
			panic(fmt.Sprintf("missing translation file %s: %v", name, err))
		}
		if _, err := bundle.ParseMessageFileBytes(data, name); err != nil {
			panic(fmt.Sprintf("failed to load translations %s: %v", name, err))
		}
	}
}

// Localizer wraps go-i18n localizer with convenience methods
type Localizer struct {
	localizer *i18n.Localizer
	tag       language.Tag
}

// NewLocalizer creates a localizer for locale ("en", "zh-CN", "zh_TW", ...).
// Unknown locales fall back to English.
func NewLocalizer(locale string) *Localizer {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		matched, _, confidence := matcher.Match(parsed)
		if confidence != language.No {
			base, _ := matched.Base()
			tag = language.Make(base.String())
		}
	}

	return &Localizer{
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		tag:       tag,
	}
}

// Tag returns the language the localizer resolved to
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// T translates a message ID to the localized string
func (l *Localizer) T(messageID string) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		// Return message ID if translation not found
		return messageID
	}
	return msg
}

// TP translates a message with plural support. The count is available to
// the message as {{.Count}}.
func (l *Localizer) TP(messageID string, count int) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		return messageID
	}
	return msg
}

// TF translates a message with template data
func (l *Localizer) TF(messageID string, templateData map[string]any) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		dataJSON, _ := json.Marshal(templateData)
		return messageID + " " + string(dataJSON)
	}
	return msg
}
