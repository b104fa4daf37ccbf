// Package face compares face descriptors produced on the client.
//
// A descriptor is a fixed-length vector of 128 float64 values. Two
// descriptors match when their Euclidean distance is strictly below
// Threshold. No biometric processing happens here.
package face

import (
	"errors"
	"math"
)

const (
	// DescriptorLength is the only accepted descriptor size.
	DescriptorLength = 128
	// Threshold is the exclusive upper bound on distance for a match.
	Threshold = 0.6
)

// ErrInvalidDescriptor reports a descriptor of the wrong length or with non-finite values.
var ErrInvalidDescriptor = errors.New("face descriptor must contain exactly 128 finite numbers")

// Result is the outcome of one comparison.
type Result struct {
	Verified   bool    `json:"verified"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
}

// ValidateDescriptor checks length and finiteness.
func ValidateDescriptor(d []float64) error {
	if len(d) != DescriptorLength {
		return ErrInvalidDescriptor
	}
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidDescriptor
		}
	}
	return nil
}

// Distance returns the Euclidean distance between two valid descriptors.
func Distance(stored, live []float64) (float64, error) {
	if err := ValidateDescriptor(stored); err != nil {
		return 0, err
	}
	if err := ValidateDescriptor(live); err != nil {
		return 0, err
	}

	var sum float64
	for i := range stored {
		d := stored[i] - live[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Compare scores live against stored.
// Confidence is 1 - distance/Threshold and goes negative past the threshold.
func Compare(stored, live []float64) (Result, error) {
	dist, err := Distance(stored, live)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Verified:   dist < Threshold,
		Distance:   dist,
		Confidence: 1 - dist/Threshold,
		Threshold:  Threshold,
	}, nil
}
