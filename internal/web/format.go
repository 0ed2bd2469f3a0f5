package web

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.MustParse("en-PH"))

// formatNumber groups thousands the way the field team reads them (1,245).
func formatNumber(n int) string {
	return numbers.Sprintf("%d", n)
}
