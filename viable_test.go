package viable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	result, err := Compile(`<start>; some of <word>; <end>;`)
	require.NoError(t, err)
	assert.Equal(t, `^\w+$`, result.Pattern)
}

func TestCompileFileAttachesFilename(t *testing.T) {
	_, err := CompileFile(`not "x";`, "broken.vbl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.vbl")
}
