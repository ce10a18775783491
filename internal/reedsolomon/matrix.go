package reedsolomon

import (
	"errors"
	"fmt"
)

// matrix is a row-major matrix over GF(2^16).
type matrix [][]uint16

var (
	errInvalidRowSize = errors.New("invalid row size")
	errInvalidColSize = errors.New("invalid column size")
	errSingular       = errors.New("matrix is singular")
)

func newMatrix(rows, cols int) (matrix, error) {
	if rows <= 0 {
		return nil, errInvalidRowSize
	}
	if cols <= 0 {
		return nil, errInvalidColSize
	}

	m := matrix(make([][]uint16, rows))
	for i := range m {
		m[i] = make([]uint16, cols)
	}
	return m, nil
}

// identityMatrix returns an n x n identity matrix.
func identityMatrix(n int) (matrix, error) {
	m, err := newMatrix(n, n)
	if err != nil {
		return nil, err
	}
	for i := range m {
		m[i][i] = 1
	}
	return m, nil
}

// vandermonde creates a Vandermonde matrix, which is guaranteed to have the
// property that any subset of rows that forms a square matrix is invertible.
func vandermonde(rows, cols int) (matrix, error) {
	m, err := newMatrix(rows, cols)
	if err != nil {
		return nil, err
	}
	for r, row := range m {
		for c := range row {
			m[r][c] = galExp(uint16(r), c)
		}
	}
	return m, nil
}

// Multiply multiplies this matrix (the one on the left) by another matrix
// (the one on the right) and returns a new matrix with the result.
func (m matrix) Multiply(right matrix) (matrix, error) {
	if len(m[0]) != len(right) {
		return nil, fmt.Errorf("columns on left (%d) is different than rows on right (%d)", len(m[0]), len(right))
	}
	result, _ := newMatrix(len(m), len(right[0]))
	for r, row := range result {
		for c := range row {
			var value uint16
			for i := range m[0] {
				value = galAdd(value, galMul(m[r][i], right[i][c]))
			}
			result[r][c] = value
		}
	}
	return result, nil
}

// Augment returns the concatenation of this matrix and the matrix on the right.
func (m matrix) Augment(right matrix) (matrix, error) {
	if len(m) != len(right) {
		return nil, errMatrixSize
	}

	result, _ := newMatrix(len(m), len(m[0])+len(right[0]))
	for r, row := range m {
		for c := range row {
			result[r][c] = m[r][c]
		}
		cols := len(m[0])
		for c := range right[0] {
			result[r][cols+c] = right[r][c]
		}
	}
	return result, nil
}

var errMatrixSize = errors.New("matrix sizes do not match")

// SubMatrix returns a part of this matrix. Data is copied.
func (m matrix) SubMatrix(rmin, cmin, rmax, cmax int) (matrix, error) {
	result, err := newMatrix(rmax-rmin, cmax-cmin)
	if err != nil {
		return nil, err
	}
	for r := rmin; r < rmax; r++ {
		for c := cmin; c < cmax; c++ {
			result[r-rmin][c-cmin] = m[r][c]
		}
	}
	return result, nil
}

// SwapRows exchanges two rows in the matrix.
func (m matrix) SwapRows(r1, r2 int) error {
	if r1 < 0 || len(m) <= r1 || r2 < 0 || len(m) <= r2 {
		return errInvalidRowSize
	}
	m[r2], m[r1] = m[r1], m[r2]
	return nil
}

// IsSquare returns true if the matrix is square.
func (m matrix) IsSquare() bool {
	return len(m) == len(m[0])
}

// Invert returns the inverse of this matrix.
// Returns errSingular when the matrix is singular and doesn't have an
// inverse. The matrix must be square, otherwise errNotSquare is returned.
func (m matrix) Invert() (matrix, error) {
	if !m.IsSquare() {
		return nil, errNotSquare
	}

	size := len(m)
	work, _ := identityMatrix(size)
	work, _ = m.Augment(work)

	if err := work.gaussianElimination(); err != nil {
		return nil, err
	}

	return work.SubMatrix(0, size, size, size*2)
}

var errNotSquare = errors.New("only square matrices can be inverted")

func (m matrix) gaussianElimination() error {
	rows := len(m)
	columns := rows

	// Clear out the part below the main diagonal and scale the main
	// diagonal to be 1.
	for r := 0; r < rows; r++ {
		// If the element on the diagonal is 0, find a row below
		// that has a non-zero and swap them.
		if m[r][r] == 0 {
			for rowBelow := r + 1; rowBelow < rows; rowBelow++ {
				if m[rowBelow][r] != 0 {
					if err := m.SwapRows(r, rowBelow); err != nil {
						return err
					}
					break
				}
			}
		}
		// If we couldn't find one, the matrix is singular.
		if m[r][r] == 0 {
			return errSingular
		}
		// Scale to 1.
		if m[r][r] != 1 {
			scale := galInverse(m[r][r])
			for c := 0; c < len(m[r]); c++ {
				m[r][c] = galMul(m[r][c], scale)
			}
		}
		// Make everything below the 1 be a 0 by subtracting a multiple of
		// it. Subtraction and addition are both XOR in a Galois field.
		for rowBelow := r + 1; rowBelow < rows; rowBelow++ {
			if m[rowBelow][r] != 0 {
				scale := m[rowBelow][r]
				for c := 0; c < len(m[rowBelow]); c++ {
					m[rowBelow][c] = galAdd(m[rowBelow][c], galMul(scale, m[r][c]))
				}
			}
		}
	}

	// Now clear the part above the main diagonal.
	for d := 0; d < columns; d++ {
		for rowAbove := 0; rowAbove < d; rowAbove++ {
			if m[rowAbove][d] != 0 {
				scale := m[rowAbove][d]
				for c := 0; c < len(m[rowAbove]); c++ {
					m[rowAbove][c] = galAdd(m[rowAbove][c], galMul(scale, m[d][c]))
				}
			}
		}
	}

	return nil
}
