// Package binfloat reinterprets fixed-width binary strings of '0'/'1'
// characters as IEEE-754 bits. These helpers are standalone utilities and
// are never used by the simulation engine itself.
package binfloat

import (
	"fmt"
	"math"
	"strconv"
)

// Bin32ToFloat32 reinterprets a 32-character '0'/'1' string as the IEEE-754
// bit pattern of a float32.
func Bin32ToFloat32(bin string) (float32, error) {
	bits, err := parseBits(bin, 32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}

// Bin64ToFloat64 reinterprets a 64-character '0'/'1' string as the IEEE-754
// bit pattern of a float64.
func Bin64ToFloat64(bin string) (float64, error) {
	bits, err := parseBits(bin, 64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// parseBits validates bin's length and decodes it as an unsigned binary
// integer.
func parseBits(bin string, width int) (uint64, error) {
	if len(bin) != width {
		return 0, fmt.Errorf("binfloat: binary string must be %d bits, got %d", width, len(bin))
	}
	bits, err := strconv.ParseUint(bin, 2, width)
	if err != nil {
		return 0, fmt.Errorf("binfloat: %w", err)
	}
	return bits, nil
}
