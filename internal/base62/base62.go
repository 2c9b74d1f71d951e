// Package base62 encodes counter values into short alphanumeric codes.
package base62

import (
	"errors"
	"fmt"
	"math"
)

// Alphabet is the digit ordering used by Encode, lowest value first.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = uint64(len(Alphabet))

// maxLen is the number of base62 digits needed for math.MaxUint64.
const maxLen = 11

// Encode returns the base62 representation of n, most significant digit first.
// Zero encodes to "0"; no other value has a leading zero.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}

	var buf [maxLen]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}

	return string(buf[i:])
}

// ErrInvalidCode is returned by Decode for strings Encode never produces.
var ErrInvalidCode = errors.New("invalid base62 code")

// Decode is the inverse of Encode. It rejects empty strings, characters
// outside Alphabet, leading zeros and values that overflow uint64.
func Decode(code string) (uint64, error) {
	if code == "" || len(code) > maxLen {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}

	if len(code) > 1 && code[0] == Alphabet[0] {
		return 0, fmt.Errorf("%w: leading zero in %q", ErrInvalidCode, code)
	}

	var n uint64

	for i := range len(code) {
		d := digit(code[i])
		if d < 0 {
			return 0, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidCode, code[i], code)
		}

		if n > (math.MaxUint64-uint64(d))/base {
			return 0, fmt.Errorf("%w: %q overflows uint64", ErrInvalidCode, code)
		}

		n = n*base + uint64(d)
	}

	return n, nil
}

func digit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	default:
		return -1
	}
}
