package text

// Integer enumerates the integer types LexicalCast supports. Each arm needs
// its own entry in digits10/maxValue/isSigned below since Go generics give
// us no numeric_limits equivalent.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// LexicalCastBool returns true iff s equals "true" exactly, mirroring the
// source's lexical_cast<bool> (case-sensitive, no other truthy spellings).
func LexicalCastBool(s string) bool {
	return s == "true"
}

// LexicalCast parses s as a base-10 integer of type T. It never errors:
// an empty string, a non-digit before any digit, a non-digit after digits,
// or an overflow all yield the zero value, exactly matching the source's
// LexicalCastImpl<T>. Overflow detection kicks in once the digit position
// reaches T's digits10 capacity.
func LexicalCast[T Integer](s string) T {
	if len(s) == 0 {
		return 0
	}
	signed := isSigned[T]()
	pos := 0
	negative := signed && s[0] == '-'
	if negative {
		pos = 1
	}
	d10 := digits10[T]()
	maxT := maxValue[T]()

	var result T
	for ; pos < len(s); pos++ {
		c := s[pos]
		if c < '0' || c > '9' {
			return 0
		}
		isDangerous := pos >= d10
		if isDangerous && maxT/10 < result {
			return 0
		}
		result *= 10
		digit := T(c - '0')
		signAdj := T(0)
		if negative {
			signAdj = 1
		}
		if isDangerous && maxT-digit < result-signAdj {
			return 0
		}
		result += digit
	}
	if negative {
		return -result
	}
	return result
}

func isSigned[T Integer]() bool {
	var zero T
	switch any(zero).(type) {
	case int8, int16, int32, int64, int:
		return true
	default:
		return false
	}
}

// digits10 mirrors std::numeric_limits<T>::digits10 for the fixed-width
// integer types this module actually uses.
func digits10[T Integer]() int {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 2
	case int16, uint16:
		return 4
	case int32, uint32:
		return 9
	case int64, int:
		return 18
	case uint64, uint:
		return 19
	default:
		return 18
	}
}

func maxValue[T Integer]() T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return any(int8(1<<7 - 1)).(T)
	case uint8:
		return any(uint8(1<<8 - 1)).(T)
	case int16:
		return any(int16(1<<15 - 1)).(T)
	case uint16:
		return any(uint16(1<<16 - 1)).(T)
	case int32:
		return any(int32(1<<31 - 1)).(T)
	case uint32:
		return any(uint32(1<<32 - 1)).(T)
	case int64:
		return any(int64(1<<63 - 1)).(T)
	case uint64:
		return any(uint64(1<<64 - 1)).(T)
	case int:
		return any(int(1<<63 - 1)).(T)
	case uint:
		return any(uint(1<<64 - 1)).(T)
	default:
		return zero
	}
}
