package state

import "encoding/binary"

// Storage key prefixes, one per table.
var (
	poolPrefix     = []byte("pool/")
	positionPrefix = []byte("posn/")
	tickPrefix     = []byte("tick/")
	bitmapPrefix   = []byte("tbmp/")
	oraclePrefix   = []byte("orcl/")

	countersKey = []byte("meta/counters")
	flagsKey    = []byte("meta/flags")
)

func PoolKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64(clonePrefix(poolPrefix), id)
}

func PositionKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64(clonePrefix(positionPrefix), id)
}

func OracleKey(poolID uint64) []byte {
	return binary.BigEndian.AppendUint64(clonePrefix(oraclePrefix), poolID)
}

// TickKey flips the sign bit of the index so keys of one pool sort by tick.
func TickKey(poolID uint64, index int32) []byte {
	key := binary.BigEndian.AppendUint64(clonePrefix(tickPrefix), poolID)
	return binary.BigEndian.AppendUint32(key, uint32(index)^(1<<31))
}

func BitmapKey(poolID uint64, word int16) []byte {
	key := binary.BigEndian.AppendUint64(clonePrefix(bitmapPrefix), poolID)
	return binary.BigEndian.AppendUint16(key, uint16(word)^(1<<15))
}

func CountersKey() []byte { return clonePrefix(countersKey) }

func FlagsKey() []byte { return clonePrefix(flagsKey) }

func clonePrefix(prefix []byte) []byte {
	out := make([]byte, len(prefix), len(prefix)+12)
	copy(out, prefix)
	return out
}
