package classify

import "math/big"

// Integer ranges by storage width. The 24- and 48-bit ranges also bound
// single- and double-precision floats: they are conservative application
// limits, not IEEE-754 ranges.
const (
	int8Min         = -128
	int8Max         = 127
	int8UnsignedMax = 255

	int16Min         = -32768
	int16Max         = 32767
	int16UnsignedMax = 65535

	int24Min         = -8388608
	int24Max         = 8388607
	int24UnsignedMax = 16777215

	int32Min         = -2147483648
	int32Max         = 2147483647
	int32UnsignedMax = 4294967295

	int48Min         = -140737488355328
	int48Max         = 140737488355327
	int48UnsignedMax = 281474976710655

	// Largest integer a float64 holds exactly.
	maxSafeInt = 9007199254740991
	minSafeInt = -9007199254740991

	yearMin = 1901
	yearMax = 2155
)

var (
	bigZero          = big.NewInt(0)
	int64Min         = big.NewInt(-9223372036854775808)
	int64Max         = big.NewInt(9223372036854775807)
	int64UnsignedMax = new(big.Int).SetUint64(18446744073709551615)
)
