package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"API", "ASCII", "CPU", "CSS", "DNS", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
		"ID", "IP", "JSON", "QPS", "RAM", "RPC", "SLA", "SMTP", "SQL", "SSH",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XSRF", "XSS",
	} {
		AddAcronym(w)
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds a word that is written in upper case in Go identifiers,
// e.g. "id" becomes ID and "user_id" becomes UserID.
func AddAcronym(word string) {
	acronyms[strings.ToUpper(word)] = struct{}{}
}

// pascal converts a snake_case or camelCase name to a PascalCase Go
// identifier, honoring acronyms.
//
//	pascal("user_id")   // UserID
//	pascal("firstName") // FirstName
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == '.' || r == ' ' })
	for i, w := range words {
		if _, ok := acronyms[strings.ToUpper(w)]; ok {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = rules.Capitalize(w)
	}
	return strings.Join(words, "")
}

// snake converts a Go identifier to snake_case, e.g. UserAccount to user_account.
func snake(s string) string {
	return rules.Underscore(s)
}

// receiver returns the receiver name of a type: its lower-cased first letter.
func receiver(s string) string {
	for _, r := range s {
		return string(unicode.ToLower(r))
	}
	return "x"
}
