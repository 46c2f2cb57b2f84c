package repository

// BarsForPeriod maps a history window to the number of daily bars it spans.
func BarsForPeriod(p Period) int {
	switch p {
	case P1Mo:
		return 22
	case P3Mo:
		return 66
	case P6Mo:
		return 126
	case P1Y:
		return 252
	case P2Y:
		return 504
	default:
		return 504
	}
}

// IsValidPeriod returns true if p is a supported window.
func IsValidPeriod(p Period) bool {
	switch p {
	case P1Mo, P3Mo, P6Mo, P1Y, P2Y:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the window long enough for every indicator lookback.
func DefaultPeriod() Period { return P2Y }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}
