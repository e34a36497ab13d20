// Package mathutil provides small matrix and argmin helpers for the
// matching dynamic program.
package mathutil

// Vec is a float64 vector.
type Vec = []float64

// Mat is a 2D float64 matrix stored as row-major [][]float64.
type Mat = [][]float64

// NewMat creates a rows x cols matrix initialized to zero, backed by a
// single allocation.
func NewMat(rows, cols int) Mat {
	m := make(Mat, rows)
	data := make([]float64, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// NewIntMat creates a rows x cols int matrix initialized to zero, backed
// by a single allocation.
func NewIntMat(rows, cols int) [][]int {
	m := make([][]int, rows)
	data := make([]int, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// NewVec creates a vector of length n initialized to zero.
func NewVec(n int) Vec {
	return make(Vec, n)
}

// NewVecFill creates a vector of length n filled with val.
func NewVecFill(n int, val float64) Vec {
	v := make(Vec, n)
	for i := range v {
		v[i] = val
	}
	return v
}

// ArgMin returns the index of the smallest value in v and the value
// itself. Ties resolve to the lowest index. An empty vector returns -1.
func ArgMin(v Vec) (int, float64) {
	if len(v) == 0 {
		return -1, 0
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] < v[best] {
			best = i
		}
	}
	return best, v[best]
}
