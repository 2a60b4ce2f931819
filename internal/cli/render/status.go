package render

import (
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var sentence = cases.Title(language.English, cases.NoLower)

func statusLine(c color.Attribute, icon, message string) string {
	return color.New(c).Sprintf("%s %s", icon, message)
}

// FormatSuccess marks a completed bootstrap step
func FormatSuccess(message string) string {
	return statusLine(color.FgGreen, "✅", message)
}

// FormatWarning marks a step that stopped without doing anything
func FormatWarning(message string) string {
	return statusLine(color.FgYellow, "⚠️ ", message)
}

// FormatError renders a command failure with its first letter capitalized.
func FormatError(message string) string {
	if message == "" {
		return statusLine(color.FgRed, "❌", message)
	}
	first, rest := message[:1], message[1:]
	return statusLine(color.FgRed, "❌", sentence.String(first)+rest)
}
