// Package samples holds example μVM assembly programs.
package samples

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"strings"

	"github.com/ezrec/uvm/translate"
)

var f = translate.From

var ErrSampleUnknown = errors.New(f("sample unknown"))

//go:embed *.asm
var sources embed.FS

// Names iterates over the names of the sample programs, in sorted order.
func Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		entries, err := fs.ReadDir(sources, ".")
		if err != nil {
			return
		}
		for _, entry := range entries {
			if !yield(strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))) {
				return
			}
		}
	}
}

// Source returns the assembly text of a sample program.
func Source(name string) (text string, err error) {
	data, err := sources.ReadFile(name + ".asm")
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrSampleUnknown, name)
		return
	}

	text = string(data)
	return
}
