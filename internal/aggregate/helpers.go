package aggregate

import (
	"math/big"
)

const ratioScale = 18

func computeFeeRates(feeX *big.Int, feeY *big.Int, reserveX *big.Int, reserveY *big.Int) (*string, *string) {
	var feeRateX *string
	var feeRateY *string

	if rate := computeRateFromInt(feeX, reserveX); rate != "" {
		feeRateX = &rate
	}
	if rate := computeRateFromInt(feeY, reserveY); rate != "" {
		feeRateY = &rate
	}
	return feeRateX, feeRateY
}

func computeRateFromInt(fee *big.Int, reserve *big.Int) string {
	if fee == nil || fee.Sign() == 0 || reserve == nil || reserve.Sign() == 0 {
		return ""
	}
	rat := new(big.Rat).SetFrac(fee, reserve)
	return rat.FloatString(ratioScale)
}
