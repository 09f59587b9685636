// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package texparse

import (
	"strings"
)

// ExtractBraces returns the text between the first '{' in s and its matching
// '}', counting nested groups. Without a '{' it returns s unchanged; when the
// group never closes it returns everything after the '{'.
func ExtractBraces(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start+1 : i]
			}
		}
	}
	return s[start+1:]
}

// DocumentMeta holds preamble fields useful as deck defaults.
type DocumentMeta struct {
	Title            string
	Author           string
	HasDocumentClass bool
}

// Metadata reads \title{...}, \author{...} and the \documentclass
// declaration from markup. Only the first occurrence of each counts.
func Metadata(markup string) DocumentMeta {
	var meta DocumentMeta
	meta.HasDocumentClass = strings.Contains(markup, `\documentclass`)
	meta.Title = commandArgument(markup, `\title`)
	meta.Author = commandArgument(markup, `\author`)
	return meta
}

// commandArgument returns the collapsed, brace-balanced argument of the
// first cmd{...} in markup. Optional [..] arguments are skipped.
func commandArgument(markup, cmd string) string {
	idx := 0
	for {
		i := strings.Index(markup[idx:], cmd)
		if i < 0 {
			return ""
		}
		i += idx
		rest := markup[i+len(cmd):]
		trimmed := strings.TrimLeft(rest, " ")
		if strings.HasPrefix(trimmed, "[") {
			if j := strings.IndexByte(trimmed, ']'); j >= 0 {
				trimmed = strings.TrimLeft(trimmed[j+1:], " ")
			}
		}
		if strings.HasPrefix(trimmed, "{") {
			return strings.Join(strings.Fields(ExtractBraces(trimmed)), " ")
		}
		idx = i + len(cmd)
	}
}
