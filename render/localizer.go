// Package render turns dosage plans into localized views and renders them
// as HTML pages or plain text. Computation never depends on the language;
// it only selects the wording.
package render

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	textcatalog "golang.org/x/text/message/catalog"
)

// Localizer resolves display languages and prints messages in them
type Localizer struct {
	supported []string
	fallback  string
	matcher   language.Matcher
	catalog   *textcatalog.Builder
	tags      map[string]language.Tag
}

// NewLocalizer builds the message catalog for the supported languages.
// fallback must be one of them and is used when nothing else matches.
func NewLocalizer(supported []string, fallback string) (*Localizer, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("no supported languages")
	}
	if !slices.Contains(supported, fallback) {
		return nil, fmt.Errorf("fallback language %q is not supported", fallback)
	}

	// The matcher prefers its first tag, so the fallback goes first
	ordered := append([]string{fallback}, slices.DeleteFunc(slices.Clone(supported), func(s string) bool {
		return s == fallback
	})...)

	tags := make(map[string]language.Tag, len(ordered))
	matcherTags := make([]language.Tag, 0, len(ordered))
	for _, lang := range ordered {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", lang, err)
		}
		tags[lang] = tag
		matcherTags = append(matcherTags, tag)
	}

	cat, err := buildCatalog(ordered, tags[fallback])
	if err != nil {
		return nil, err
	}

	return &Localizer{
		supported: ordered,
		fallback:  fallback,
		matcher:   language.NewMatcher(matcherTags),
		catalog:   cat,
		tags:      tags,
	}, nil
}

// Match returns the supported language for the first candidate that
// matches one. Candidates are language tags or Accept-Language values in
// priority order; empty and unparsable candidates are skipped.
func (l *Localizer) Match(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(c)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := l.matcher.Match(tags...); conf != language.No {
			return l.supported[idx]
		}
	}
	return l.fallback
}

// Supported returns the supported languages, fallback first
func (l *Localizer) Supported() []string {
	return slices.Clone(l.supported)
}

// Fallback returns the default language
func (l *Localizer) Fallback() string {
	return l.fallback
}

// Printer returns a message printer for lang, falling back to the default
// language when lang is not supported
func (l *Localizer) Printer(lang string) *message.Printer {
	tag, ok := l.tags[lang]
	if !ok {
		tag = l.tags[l.fallback]
	}
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}
