package models

// PiotroskiSignal buckets the F-Score.
type PiotroskiSignal string

const (
	PiotroskiStrong   PiotroskiSignal = "STRONG"
	PiotroskiModerate PiotroskiSignal = "MODERATE"
	PiotroskiWeak     PiotroskiSignal = "WEAK"
)

// PiotroskiCheck is one of the nine boolean checks. Evaluable is false when
// a required statement field was missing; the check is then excluded from
// both the score and its maximum.
type PiotroskiCheck struct {
	Name      string
	Passed    bool
	Evaluable bool
}

// PiotroskiResult is the 9-point financial strength checklist outcome.
type PiotroskiResult struct {
	Score     int
	MaxScore  int
	Signal    PiotroskiSignal
	Checks    []PiotroskiCheck
}

// DuPontResult carries the 3-way and 5-way ROE decompositions.
// The 3-way product (margin x turnover x multiplier) reproduces ROE within
// rounding tolerance; the 5-way identity holds the same way.
type DuPontResult struct {
	ROE              float64
	NetMargin        float64
	AssetTurnover    float64
	EquityMultiplier float64
	TaxBurden        float64
	InterestBurden   float64
	OperatingMargin  float64
	Available        bool
	Reason           string
}

// EarningsQuality flags earnings that are not cash-backed.
type EarningsQuality struct {
	AccrualsRatio    float64 // (NI - OCF) / total assets; lower is better
	FCFToNetIncome   float64
	RedFlags         []string
	Available        bool
}

// CashConversion is the CCC decomposition in days. Negative CCC is favorable.
type CashConversion struct {
	DSO       float64
	DIO       float64
	DPO       float64
	CCC       float64
	Available bool
}

// CapitalAllocation scores how management deploys capital.
type CapitalAllocation struct {
	Score             float64
	MaxScore          float64
	RnDIntensity      *float64
	CapexToDepreciation *float64
	BuybackYieldPct   *float64
	NetDebtTrend      *float64
	Notes             []string
}

// QualityScore is the Fundamental Quality Engine output. Each sub-score is
// bounded to its own maximum; Overall is pre-normalized to [0,100] for the
// composite scorer.
type QualityScore struct {
	Ticker            string
	Overall           float64 // [0,100]
	Piotroski         PiotroskiResult
	DuPont            DuPontResult
	Earnings          EarningsQuality
	CashCycle         CashConversion
	CapitalAllocation CapitalAllocation
}
