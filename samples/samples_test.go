package samples

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/uvm/cpu"
)

func TestNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"copy", "overwrite", "simple"}, slices.Collect(Names()))
}

func TestSource(t *testing.T) {
	assert := assert.New(t)

	for name := range Names() {
		text, err := Source(name)
		assert.NoError(err, name)
		assert.True(strings.HasPrefix(text, ";"), name)

		asm := &cpu.Assembler{}
		prog, err := asm.Parse(strings.NewReader(text))
		if assert.NoError(err, name) {
			assert.NotEqual(0, len(prog.Opcodes), name)
		}
	}

	_, err := Source("missing")
	assert.ErrorIs(err, ErrSampleUnknown)
}
