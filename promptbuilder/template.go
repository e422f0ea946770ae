/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Template is a parsed prompt template with {name} placeholders drawn from a
// fixed allow-list. Parsing rejects malformed placeholders and unknown keys,
// so Render can only substitute values the template kind permits; there is no
// open-ended expression evaluation.
type Template struct {
	raw  string
	keys map[string]struct{}
}

// resolveFunc provides a replacement for a placeholder name.
type resolveFunc func(name string) (string, error)

// ParseTemplate validates a template against the allowed placeholder keys.
func ParseTemplate(template string, allowed []string) (*Template, error) {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = struct{}{}
	}

	keys := make(map[string]struct{})
	if _, err := walkTemplate(template, func(name string) (string, error) {
		if _, ok := allowedSet[name]; !ok {
			return "", fmt.Errorf("placeholder {%s} is not allowed here", name)
		}
		keys[name] = struct{}{}
		return "{" + name + "}", nil
	}); err != nil {
		return nil, err
	}

	return &Template{raw: template, keys: keys}, nil
}

// Render substitutes the template's placeholders from values. Every key the
// template references must be present.
func (t *Template) Render(values map[string]string) (string, error) {
	for name := range t.keys {
		if _, ok := values[name]; !ok {
			return "", fmt.Errorf("no value supplied for placeholder {%s}", name)
		}
	}
	return walkTemplate(t.raw, func(name string) (string, error) {
		return values[name], nil
	})
}

// walkTemplate tokenizes the template in a single pass and calls resolve for
// each placeholder. Substituted values are never re-scanned, so values cannot
// smuggle placeholders of their own.
func walkTemplate(template string, resolve resolveFunc) (string, error) {
	var result strings.Builder

	for len(template) > 0 {
		start := strings.IndexByte(template, '{')
		if start == -1 {
			result.WriteString(template)
			break
		}
		result.WriteString(template[:start])

		end := strings.IndexByte(template[start:], '}')
		if end == -1 {
			return "", errors.New("unclosed placeholder: missing '}'")
		}
		end += start + 1

		name := template[start+1 : end-1]
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid placeholder identifier %q", name)
		}
		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		result.WriteString(replacement)

		template = template[end:]
	}

	return result.String(), nil
}

// isValidIdentifier reports whether s starts with a letter and contains only
// letters, digits, and underscores.
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
