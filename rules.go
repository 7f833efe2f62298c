/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/yuin/goldmark"
)

//go:embed kniffel/rules.md
var rulesMarkdown []byte

// Raw HTML in the source is not passed through.
var mdRenderer = goldmark.New()

func renderRules() (template.HTML, error) {
	var buf bytes.Buffer

	if err := mdRenderer.Convert(rulesMarkdown, &buf); err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil
}
