package modelwebsocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFromString(t *testing.T) {
	for _, a := range append(ClientActions, ServerActions...) {
		got, err := ActionFromString(a.String())
		assert.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ActionFromString("roll")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Action("roll").String())
}
