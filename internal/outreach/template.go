// Package outreach binds message templates to candidates and keeps the
// selected template consistent when the editor switches language.
//
// Nothing here holds state beyond a single Draft; rendering is a pure
// function of (template, candidate, sender).
package outreach

import (
	"regexp"
	"strings"

	"hiring/sourcing-service/internal/model"
)

// Supported template languages.
const (
	LangEN = "en"
	LangKR = "kr"
)

// Languages lists the closed set of template languages.
var Languages = []string{LangEN, LangKR}

// IsLanguage reports whether lang is one of Languages.
func IsLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Sender is the fixed identity of the recruiter sending messages.
type Sender struct {
	Name    string
	Title   string
	Company string
	Topic   string // default subject when a candidate has no keyword
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// resolver describes where a placeholder's value may come from. Sources are
// always tried in the same order: field, headline, search keyword, constant.
// Every candidate-field placeholder walks the whole candidate chain; only the
// sender placeholders skip it. A known placeholder with no value resolves
// to "".
type resolver struct {
	field    func(model.Candidate) string
	headline bool
	keyword  bool
	constant func(Sender) string
}

var resolvers = map[string]resolver{
	"name":         {field: model.Candidate.DisplayName, headline: true, keyword: true},
	"first_name":   {field: firstName, headline: true, keyword: true},
	"headline":     {field: func(c model.Candidate) string { return c.Headline }, keyword: true},
	"location":     {field: func(c model.Candidate) string { return c.Location }, headline: true, keyword: true},
	"profile_url":  {field: func(c model.Candidate) string { return c.ProfileURL }, headline: true, keyword: true},
	"keyword":      {field: func(c model.Candidate) string { return c.SearchKeyword }},
	"role":         {headline: true, keyword: true},
	"topic":        {keyword: true, constant: func(s Sender) string { return s.Topic }},
	"sender_name":  {constant: func(s Sender) string { return s.Name }},
	"sender_title": {constant: func(s Sender) string { return s.Title }},
	"company":      {constant: func(s Sender) string { return s.Company }},
}

func firstName(c model.Candidate) string {
	if fields := strings.Fields(c.FullName); len(fields) > 0 {
		return fields[0]
	}
	return c.Username
}

// Known reports whether the engine can resolve placeholder.
func Known(placeholder string) bool {
	_, ok := resolvers[placeholder]
	return ok
}

// Resolve returns the value for placeholder and whether it is known.
func Resolve(placeholder string, c model.Candidate, s Sender) (string, bool) {
	r, ok := resolvers[placeholder]
	if !ok {
		return "", false
	}
	if r.field != nil {
		if v := strings.TrimSpace(r.field(c)); v != "" {
			return v, true
		}
	}
	if r.headline {
		if v := strings.TrimSpace(c.Headline); v != "" {
			return v, true
		}
	}
	if r.keyword {
		if v := strings.TrimSpace(c.SearchKeyword); v != "" {
			return v, true
		}
	}
	if r.constant != nil {
		if v := r.constant(s); v != "" {
			return v, true
		}
	}
	return "", true
}

// Render fills every known placeholder in tpl.Body from c and s. Unknown
// placeholders are kept verbatim. Values are never rescanned, so rendering
// the same inputs always yields the same text.
func Render(tpl model.OutreachTemplate, c model.Candidate, s Sender) string {
	return placeholderRe.ReplaceAllStringFunc(tpl.Body, func(tok string) string {
		name := tok[1 : len(tok)-1]
		if v, ok := Resolve(name, c, s); ok {
			return v
		}
		return tok
	})
}

// Placeholders returns the distinct placeholder names in body in order of
// first appearance.
func Placeholders(body string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Unresolvable returns the placeholders of tpl the engine does not know.
// They will appear literally in rendered output.
func Unresolvable(tpl model.OutreachTemplate) []string {
	var out []string
	for _, p := range Placeholders(tpl.Body) {
		if !Known(p) {
			out = append(out, p)
		}
	}
	return out
}
