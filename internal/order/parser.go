package order

import "strings"

// DefaultPrefixes are the free-text triggers recognized in chat messages.
// The Swedish form matches what regulars already type; the English one is
// the documented alias.
var DefaultPrefixes = []string{"order:", "beställ:"}

// Parsed holds the four raw fields of an order request, trimmed but
// otherwise unvalidated: the price is not numerically parsed here and the
// payment method is not checked against the enumerated set.
type Parsed struct {
	GameName      string
	RawPrice      string
	SteamName     string
	PaymentMethod string
}

// Parse recognizes a prefixed order message and splits it into exactly four
// comma-separated fields. It reports false when the prefix is absent, the
// field count differs from four, or any field is empty after trimming.
func Parse(text string, prefixes ...string) (Parsed, bool) {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}

	lowered := strings.ToLower(text)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lowered, strings.ToLower(prefix)) {
			return ParseFields(text[len(prefix):])
		}
	}

	return Parsed{}, false
}

// ParseFields splits a bare (already unprefixed) order body on commas.
func ParseFields(body string) (Parsed, bool) {
	parts := strings.Split(body, ",")
	if len(parts) != 4 {
		return Parsed{}, false
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Parsed{}, false
		}
	}

	return Parsed{
		GameName:      parts[0],
		RawPrice:      parts[1],
		SteamName:     parts[2],
		PaymentMethod: parts[3],
	}, true
}

// HasPrefix reports whether the text is an order attempt at all, used by the
// router to distinguish "malformed order" from "unrelated chatter".
func HasPrefix(text string, prefixes ...string) bool {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}

	lowered := strings.ToLower(text)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lowered, strings.ToLower(prefix)) {
			return true
		}
	}

	return false
}
