// Package translate formats user-facing μVM messages for the host locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("uvm: locale: %v", err)
	}

	Use(locales...)
}

// Use selects the locale for later messages, from a list of BCP 47 names
// in order of preference. With no names, American English is used.
// Messages already formatted, such as sentinel errors, keep their text.
func Use(locales ...string) (tag language.Tag) {
	if len(locales) == 0 {
		locales = []string{language.AmericanEnglish.String()}
	}

	tag = message.MatchLanguage(locales...)
	printer = message.NewPrinter(tag)
	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
