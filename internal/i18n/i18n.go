// Package i18n resolves localized bot strings using dot-separated keys.
// Locale files are embedded so a deployment never ships without them.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator holds all loaded translations keyed by language.
type Translator struct {
	catalog     map[string]map[string]string
	defaultLang string
}

// Load parses the embedded locale files. defaultLang must be present.
func Load(defaultLang string) (*Translator, error) {
	if defaultLang == "" {
		defaultLang = "sv"
	}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}

	catalog := make(map[string]map[string]string)
	for _, entry := range entries {
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", entry.Name(), err)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", entry.Name(), err)
		}

		lang := strings.TrimSuffix(strings.ToLower(entry.Name()), ".yaml")
		flattened := make(map[string]string)
		flatten("", raw, flattened)
		catalog[lang] = flattened
	}

	if _, ok := catalog[defaultLang]; !ok {
		return nil, fmt.Errorf("i18n: default language %q is missing", defaultLang)
	}

	return &Translator{catalog: catalog, defaultLang: defaultLang}, nil
}

// T resolves key for lang, falling back to the default language and finally
// to the key itself. Extra args are applied with fmt.Sprintf.
func (t *Translator) T(lang, key string, args ...interface{}) string {
	if t == nil {
		return key
	}

	value := t.lookup(lang, key)
	if value == "" {
		value = t.lookup(t.defaultLang, key)
	}
	if value == "" {
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(value, args...)
	}
	return value
}

// Languages returns all loaded languages.
func (t *Translator) Languages() []string {
	if t == nil {
		return nil
	}

	languages := make([]string, 0, len(t.catalog))
	for lang := range t.catalog {
		languages = append(languages, lang)
	}
	return languages
}

func (t *Translator) lookup(lang, key string) string {
	norm := strings.ToLower(strings.TrimSpace(lang))
	if entries := t.catalog[norm]; entries != nil {
		return entries[key]
	}
	return ""
}

// LocaleFromContext picks the user's language from the Telegram profile.
func LocaleFromContext(c telebot.Context) string {
	if c == nil {
		return ""
	}

	sender := c.Sender()
	if sender == nil {
		return ""
	}

	lang := strings.ToLower(sender.LanguageCode)
	if idx := strings.IndexByte(lang, '-'); idx > 0 {
		lang = lang[:idx]
	}
	return lang
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		if key == "" {
			continue
		}

		nextKey := key
		if prefix != "" {
			nextKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[nextKey] = v
		case map[string]any:
			flatten(nextKey, v, out)
		}
	}
}
