package types

import "math/big"

// Token amounts are fixed-point integers scaled by 10^18. Every reward,
// slash and revenue-split computation stays in integer arithmetic; floats
// never touch balances.

const TokenDecimals = 18

var oneToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(TokenDecimals), nil)

func OneToken() *big.Int {
	return new(big.Int).Set(oneToken)
}

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), oneToken)
}

func ZeroAmount() *big.Int {
	return new(big.Int)
}

// ParseAmount decodes a base-10 amount in base units. Negative or malformed
// strings are rejected.
func ParseAmount(s string) (*big.Int, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

func AmountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
