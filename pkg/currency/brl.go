// Package currency formatea montos en reales para comprobantes y mensajes.
package currency

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea centavos como "R$ 1.234,56". Los negativos llevan el signo delante: "-R$ 0,50".
func FormatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + printer.Sprintf("R$ %d", cents/100) + fmt.Sprintf(",%02d", cents%100)
}

// FormatInt agrupa miles con punto: 12345 -> "12.345".
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}
