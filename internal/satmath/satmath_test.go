package satmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturatingAddUint32ClampsOnOverflow(t *testing.T) {
	assert.Equal(t, uint32(MaxUint32), SaturatingAddUint32(MaxUint32, 1))
	assert.Equal(t, uint32(5), SaturatingAddUint32(2, 3))
}

func TestWrapIncrementWrapsAtMax(t *testing.T) {
	assert.Equal(t, uint32(0), WrapIncrement(MaxUint32))
	assert.Equal(t, uint32(6), WrapIncrement(5))
}
