package phone

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// maxDigits is the longest number E.164 allows, country code included.
const maxDigits = 15

// nationalLengths holds the longest national number for country codes the
// relay commonly serves. Other codes fall back to what E.164 leaves room for.
var nationalLengths = map[string]int{
	"1":   10,
	"44":  10,
	"49":  11,
	"55":  11,
	"351": 9,
}

func nationalLength(cc string) int {
	if n, ok := nationalLengths[cc]; ok {
		return n
	}
	return maxDigits - len(cc)
}

// Canonical reduces a phone number to digits with exactly one leading "+".
// Any transport prefix such as "whatsapp:" is dropped. Numbers written without
// a "+" are national and get defaultCountryCode, unless they are longer than
// a national number and already start with it. Canonical is idempotent.
func Canonical(raw, defaultCountryCode string) string {
	s := strings.TrimSpace(StripTransport(raw))
	international := strings.HasPrefix(s, "+")
	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return ""
	}

	if !international && defaultCountryCode != "" {
		cc := nonDigits.ReplaceAllString(defaultCountryCode, "")
		national := strings.TrimLeft(digits, "0")
		if strings.HasPrefix(national, cc) && len(national) > nationalLength(cc) {
			digits = national
		} else {
			digits = cc + national
		}
	}
	return "+" + digits
}

// StripTransport removes a "channel:" prefix, e.g. "whatsapp:+1415..." -> "+1415...".
func StripTransport(raw string) string {
	if i := strings.Index(raw, ":"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// Address returns the canonical number with transport prepended, the form
// carriers expect for channel addressing ("whatsapp:+5511999998888").
func Address(raw, transport, defaultCountryCode string) string {
	canonical := Canonical(raw, defaultCountryCode)
	if canonical == "" || transport == "" {
		return canonical
	}
	return strings.TrimSuffix(transport, ":") + ":" + canonical
}
