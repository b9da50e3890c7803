package model

import "github.com/holiman/uint256"

// OracleSample is the price tracker state of one pool.
type OracleSample struct {
	PoolID          uint64       `json:"pool_id"`
	PriceCumulative *uint256.Int `json:"price_cumulative"`
	PriceAverage    *uint256.Int `json:"price_average"`
	Timestamp       uint64       `json:"timestamp"`
}
