// Package fixedpoint implements the deterministic unsigned fixed-point arithmetic
// used by the pool engine. Values are scaled by Precision and bounded to 128 bits.
package fixedpoint

import (
	"errors"

	"github.com/holiman/uint256"
)

// Precision is the fixed-point scale (6 decimal digits).
const Precision uint64 = 1_000_000

var (
	ErrOverflow     = errors.New("fixed-point overflow")
	ErrDivideByZero = errors.New("division by zero")
	ErrInvalidInput = errors.New("invalid input")
)

var (
	precision  = uint256.NewInt(Precision)
	maxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))
)

// One returns Precision as a fresh value.
func One() *uint256.Int {
	return precision.Clone()
}

// MaxUint128 returns the largest value an operand or result may take.
func MaxUint128() *uint256.Int {
	return maxUint128.Clone()
}

// Fits reports whether x is within the 128-bit operand bound.
func Fits(x *uint256.Int) bool {
	return x != nil && x.Cmp(maxUint128) <= 0
}

// Mul returns a*b/Precision.
func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	if !Fits(a) || !Fits(b) {
		return nil, ErrOverflow
	}
	// both operands are below 2^128, the product cannot wrap
	z := new(uint256.Int).Mul(a, b)
	z.Div(z, precision)
	if !Fits(z) {
		return nil, ErrOverflow
	}
	return z, nil
}

// Div returns a*Precision/b.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if !Fits(a) || !Fits(b) {
		return nil, ErrOverflow
	}
	if b.IsZero() {
		return nil, ErrDivideByZero
	}
	z := new(uint256.Int).Mul(a, precision)
	z.Div(z, b)
	if !Fits(z) {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sqrt returns a one-step Newton approximation of the square root of x, seeded
// with x/2+1. The result is intentionally not converged.
func Sqrt(x *uint256.Int) (*uint256.Int, error) {
	if !Fits(x) {
		return nil, ErrOverflow
	}
	seed := new(uint256.Int).Rsh(x, 1)
	seed.AddUint64(seed, 1)

	z := new(uint256.Int).Div(x, seed)
	z.Add(z, seed)
	z.Rsh(z, 1)
	return z, nil
}

// MulDiv returns a*b/d without intermediate scaling.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if !Fits(a) || !Fits(b) || !Fits(d) {
		return nil, ErrOverflow
	}
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	z := new(uint256.Int).Mul(a, b)
	z.Div(z, d)
	if !Fits(z) {
		return nil, ErrOverflow
	}
	return z, nil
}

// Add returns a+b within the 128-bit bound.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	if !Fits(a) || !Fits(b) {
		return nil, ErrOverflow
	}
	z := new(uint256.Int).Add(a, b)
	if !Fits(z) {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns a-b, failing with ErrInvalidInput when b > a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	if !Fits(a) || !Fits(b) {
		return nil, ErrOverflow
	}
	if a.Lt(b) {
		return nil, ErrInvalidInput
	}
	return new(uint256.Int).Sub(a, b), nil
}

// Min returns the smaller of a and b.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}

// AbsDiff returns |a-b|.
func AbsDiff(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Sub(b, a)
	}
	return new(uint256.Int).Sub(a, b)
}
