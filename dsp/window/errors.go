package window

import (
	"errors"
	"fmt"
)

var errMismatchedLength = errors.New("samples and coefficients must have same length")

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateGauss(size int, alpha float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if alpha <= 0 {
		return fmt.Errorf("gauss alpha must be > 0: %f", alpha)
	}
	return nil
}
