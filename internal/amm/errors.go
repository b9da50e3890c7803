package amm

import (
	"errors"

	"liquidityCore/internal/fixedpoint"
)

var (
	ErrNotAuthorized         = errors.New("not authorized")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrPoolExists            = errors.New("pool already exists")
	ErrInvalidPool           = errors.New("invalid pool")
	ErrInvalidPosition       = errors.New("invalid position")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrSlippageExceeded      = errors.New("slippage exceeded")
	ErrNotFound              = errors.New("not found")
)

// Code is the stable numeric identifier of a failure mode.
type Code uint16

const (
	CodeOK Code = iota
	CodeNotAuthorized
	CodeInvalidAmount
	CodePoolExists
	CodeInvalidPool
	CodeInvalidPosition
	CodeInsufficientLiquidity
	CodeSlippageExceeded
	CodeNotFound
	CodeOverflow
	CodeDivideByZero
	CodeInvalidInput
	CodeUnknown Code = 255
)

var codes = []struct {
	err  error
	code Code
}{
	{ErrNotAuthorized, CodeNotAuthorized},
	{ErrInvalidAmount, CodeInvalidAmount},
	{ErrPoolExists, CodePoolExists},
	{ErrInvalidPool, CodeInvalidPool},
	{ErrInvalidPosition, CodeInvalidPosition},
	{ErrInsufficientLiquidity, CodeInsufficientLiquidity},
	{ErrSlippageExceeded, CodeSlippageExceeded},
	{ErrNotFound, CodeNotFound},
	{fixedpoint.ErrOverflow, CodeOverflow},
	{fixedpoint.ErrDivideByZero, CodeDivideByZero},
	{fixedpoint.ErrInvalidInput, CodeInvalidInput},
}

// CodeOf maps err to its code. Nil is CodeOK; errors from outside the engine
// (store, clock) are CodeUnknown.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeUnknown
}

// Category groups codes by who has to act on them.
type Category string

const (
	CategoryNone          Category = ""
	CategoryAuthorization Category = "authorization"
	CategoryValidation    Category = "validation"
	CategoryArithmetic    Category = "arithmetic"
	CategoryInternal      Category = "internal"
)

func CategoryOf(err error) Category {
	switch CodeOf(err) {
	case CodeOK:
		return CategoryNone
	case CodeNotAuthorized:
		return CategoryAuthorization
	case CodeOverflow:
		return CategoryArithmetic
	case CodeUnknown:
		return CategoryInternal
	default:
		return CategoryValidation
	}
}

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeNotAuthorized:
		return "NotAuthorized"
	case CodeInvalidAmount:
		return "InvalidAmount"
	case CodePoolExists:
		return "PoolExists"
	case CodeInvalidPool:
		return "InvalidPool"
	case CodeInvalidPosition:
		return "InvalidPosition"
	case CodeInsufficientLiquidity:
		return "InsufficientLiquidity"
	case CodeSlippageExceeded:
		return "SlippageExceeded"
	case CodeNotFound:
		return "NotFound"
	case CodeOverflow:
		return "Overflow"
	case CodeDivideByZero:
		return "DivideByZero"
	case CodeInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}
