// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"regexp"
	"strings"
	"text/template"
)

// Beamer markup is full of braces, so templates use << >> delimiters.
const templateText = `<<define "document">>\documentclass{beamer}
\usetheme{<<.Theme>>}
\usecolortheme{default}
\usepackage[utf8]{inputenc}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{graphicx}
\usepackage{booktabs}

\title{<<.Title>>}
\author{<<.Author>>}
\institute{<<.Institute>>}
\date{<<.Date>>}

\begin{document}

<<range .Frames>><<.>>
<<end>>\end{document}
<<end>>

<<define "title">>\begin{frame}
  \titlepage
\end{frame}
<<end>>

<<define "frame">>\begin{frame}
  \frametitle{<<.Title>>}
<<if .Image>>  \begin{columns}
    \begin{column}{0.55\textwidth}
      \centering
      \includegraphics[width=\linewidth]{<<.Image>>}
    \end{column}
    \begin{column}{0.4\textwidth}
<<template "body" .>>    \end{column}
  \end{columns}
<<else>><<if .Equation>><<.Equation>>
<<end>><<template "body" .>><<end>>\end{frame}
<<end>>

<<define "body">><<if .Table>><<.Table>><<else if .Items>>  \begin{itemize}
<<range .Items>>    \item <<.>>
<<end>>  \end{itemize}
<<end>><<end>>`

var templates = template.Must(template.New("beamer").Delims("<<", ">>").Parse(templateText))

// documentData fills the preamble and wraps the rendered frames.
type documentData struct {
	Theme     string
	Title     string
	Author    string
	Institute string
	Date      string
	Frames    []string
}

// frameData describes one content frame. Image selects the columns layout;
// Equation is placed above the body; Table replaces Items when set.
type frameData struct {
	Title    string
	Image    string
	Equation string
	Table    string
	Items    []string
}

func render(name string, data any) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		panic("compose: executing template " + name + ": " + err.Error())
	}
	return b.String()
}

var envMarker = regexp.MustCompile(`\\(begin|end)\{([^}]+)\}`)

// equationBlock returns eq as display math. Blocks without an environment
// are wrapped in align*.
func equationBlock(eq string) string {
	eq = strings.TrimSpace(eq)
	if strings.Contains(eq, `\begin`) {
		return closeEnvironments(eq)
	}
	return "\\begin{align*}\n" + eq + "\n\\end{align*}"
}

// closeEnvironments drops \end markers that close nothing and appends the
// \end of every environment left open.
func closeEnvironments(eq string) string {
	var open []string
	out := envMarker.ReplaceAllStringFunc(eq, func(m string) string {
		sub := envMarker.FindStringSubmatch(m)
		if sub[1] == "begin" {
			open = append(open, sub[2])
			return m
		}
		if n := len(open); n > 0 && open[n-1] == sub[2] {
			open = open[:n-1]
			return m
		}
		return ""
	})
	for i := len(open) - 1; i >= 0; i-- {
		out += "\n\\end{" + open[i] + "}"
	}
	return out
}
