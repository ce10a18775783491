package reedsolomon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMatrix(t *testing.T) {
	assert := assert.New(t)

	m, err := identityMatrix(4)
	require.NoError(t, err)

	inverse, err := m.Invert()
	require.NoError(t, err)
	assert.Equal(m, inverse)
}

func TestMatrixInvert(t *testing.T) {
	assert := assert.New(t)

	vm, err := vandermonde(8, 4)
	require.NoError(t, err)

	// Any square subset of Vandermonde rows is invertible.
	sub, err := vm.SubMatrix(2, 0, 6, 4)
	require.NoError(t, err)

	inverse, err := sub.Invert()
	require.NoError(t, err)

	product, err := sub.Multiply(inverse)
	require.NoError(t, err)

	identity, err := identityMatrix(4)
	require.NoError(t, err)
	assert.Equal(identity, product)
}

func TestMatrixSingular(t *testing.T) {
	m, err := newMatrix(2, 2)
	require.NoError(t, err)
	m[0][0], m[0][1] = 4, 2
	m[1][0], m[1][1] = 4, 2

	_, err = m.Invert()
	assert.ErrorIs(t, err, errSingular)
}

func TestMatrixSwapRows(t *testing.T) {
	assert := assert.New(t)

	m, err := newMatrix(2, 2)
	require.NoError(t, err)
	m[0][0] = 1
	m[1][0] = 2

	require.NoError(t, m.SwapRows(0, 1))
	assert.Equal(uint16(2), m[0][0])
	assert.Equal(uint16(1), m[1][0])

	assert.Error(m.SwapRows(0, 2))
}

func TestMatrixArgs(t *testing.T) {
	assert := assert.New(t)

	_, err := newMatrix(0, 1)
	assert.ErrorIs(err, errInvalidRowSize)
	_, err = newMatrix(1, 0)
	assert.ErrorIs(err, errInvalidColSize)

	m, err := newMatrix(2, 3)
	require.NoError(t, err)
	_, err = m.Invert()
	assert.ErrorIs(err, errNotSquare)
}
