package fundamental

import (
	"math"
	"testing"
	"time"

	"QuantDesk/internal/domain/models"
)

func f(v float64) *float64 { return &v }

// strongPeriod builds a period that passes every Piotroski check against
// weakPeriod as the prior year.
func weakPeriod() models.StatementSnapshot {
	return models.StatementSnapshot{
		PeriodEnd:          time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		Revenue:            f(900),
		NetIncome:          f(40),
		OperatingCashFlow:  f(30),
		CapitalExpenditure: f(25),
		Depreciation:       f(20),
		TotalAssets:        f(1000),
		CurrentAssets:      f(300),
		CurrentLiabilities: f(200),
		TotalDebt:          f(400),
		Cash:               f(100),
		Equity:             f(500),
		SharesOutstanding:  f(100),
		GrossMargin:        f(0.38),
		CostOfRevenue:      f(558),
		Inventory:          f(80),
		Receivables:        f(90),
		Payables:           f(70),
	}
}

func strongPeriod() models.StatementSnapshot {
	return models.StatementSnapshot{
		PeriodEnd:          time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Revenue:            f(1200),
		NetIncome:          f(90),
		OperatingCashFlow:  f(130),
		CapitalExpenditure: f(35),
		Depreciation:       f(22),
		RnD:                f(60),
		EBIT:               f(140),
		PretaxIncome:       f(120),
		TotalAssets:        f(1050),
		CurrentAssets:      f(400),
		CurrentLiabilities: f(210),
		TotalDebt:          f(350),
		Cash:               f(180),
		Equity:             f(560),
		SharesOutstanding:  f(98),
		GrossMargin:        f(0.42),
		CostOfRevenue:      f(696),
		Inventory:          f(85),
		Receivables:        f(100),
		Payables:           f(95),
	}
}

func history(periods ...models.StatementSnapshot) models.StatementHistory {
	return models.StatementHistory{Ticker: "TEST", Periods: periods}
}

func TestPiotroskiAllChecksTrue(t *testing.T) {
	res := Piotroski(history(weakPeriod(), strongPeriod()))
	if res.MaxScore != 9 {
		t.Fatalf("all checks evaluable, expected max 9, got %d", res.MaxScore)
	}
	if res.Score != 9 {
		for _, c := range res.Checks {
			t.Logf("check %s passed=%v evaluable=%v", c.Name, c.Passed, c.Evaluable)
		}
		t.Fatalf("expected score 9, got %d", res.Score)
	}
	if res.Signal != models.PiotroskiStrong {
		t.Fatalf("expected STRONG, got %s", res.Signal)
	}
}

func TestPiotroskiBounds(t *testing.T) {
	res := Piotroski(history(strongPeriod(), weakPeriod()))
	if res.Score < 0 || res.Score > 9 {
		t.Fatalf("score out of [0,9]: %d", res.Score)
	}
}

func TestPiotroskiMissingFieldShrinksMax(t *testing.T) {
	cur := strongPeriod()
	cur.GrossMargin = nil
	res := Piotroski(history(weakPeriod(), cur))
	if res.MaxScore != 8 {
		t.Fatalf("missing gross margin should drop one check, max=%d", res.MaxScore)
	}
}

func TestPiotroskiNeedsTwoPeriods(t *testing.T) {
	res := Piotroski(history(strongPeriod()))
	if res.MaxScore != 0 || res.Score != 0 {
		t.Fatalf("single period must not score, got %d/%d", res.Score, res.MaxScore)
	}
}

func TestDuPontThreeWayIdentity(t *testing.T) {
	res := DuPont(history(strongPeriod()))
	if !res.Available {
		t.Fatalf("expected available: %s", res.Reason)
	}
	product := res.NetMargin * res.AssetTurnover * res.EquityMultiplier
	if math.Abs(product-res.ROE)/math.Abs(res.ROE) > 1e-6 {
		t.Fatalf("3-way product %v does not reproduce ROE %v", product, res.ROE)
	}
}

func TestDuPontFiveWayIdentity(t *testing.T) {
	res := DuPont(history(strongPeriod()))
	product := res.TaxBurden * res.InterestBurden * res.OperatingMargin * res.AssetTurnover * res.EquityMultiplier
	if math.Abs(product-res.ROE)/math.Abs(res.ROE) > 1e-6 {
		t.Fatalf("5-way product %v does not reproduce ROE %v", product, res.ROE)
	}
}

func TestDuPontMissingEquity(t *testing.T) {
	cur := strongPeriod()
	cur.Equity = nil
	res := DuPont(history(cur))
	if res.Available {
		t.Fatalf("expected unavailable without equity")
	}
	if res.Reason == "" {
		t.Fatalf("expected a reason")
	}
}

func TestEarningsQualityPersistentShortfall(t *testing.T) {
	mk := func(year int, ni, ocf float64) models.StatementSnapshot {
		return models.StatementSnapshot{
			PeriodEnd:         time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
			NetIncome:         f(ni),
			OperatingCashFlow: f(ocf),
			TotalAssets:       f(1000),
		}
	}
	// OCF consistently below NI for 3 consecutive periods.
	res := EarningsQuality(history(mk(2022, 100, 30), mk(2023, 110, 35), mk(2024, 120, 40)))
	if !res.Available {
		t.Fatalf("expected available")
	}
	if res.AccrualsRatio <= 0.05 {
		t.Fatalf("expected accruals ratio > 0.05, got %v", res.AccrualsRatio)
	}
	if len(res.RedFlags) == 0 {
		t.Fatalf("expected quality red flags")
	}
	found := false
	for _, flag := range res.RedFlags {
		if flag == "operating cash flow below net income for 3 consecutive periods" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the persistent-shortfall flag, got %v", res.RedFlags)
	}
}

func TestEarningsQualityCashBacked(t *testing.T) {
	p := strongPeriod()
	res := EarningsQuality(history(p))
	if res.AccrualsRatio >= 0 {
		t.Fatalf("OCF above NI should give negative accruals, got %v", res.AccrualsRatio)
	}
	if len(res.RedFlags) != 0 {
		t.Fatalf("unexpected red flags: %v", res.RedFlags)
	}
}

func TestCashCycle(t *testing.T) {
	res := CashCycle(history(strongPeriod()))
	if !res.Available {
		t.Fatalf("expected available")
	}
	want := res.DSO + res.DIO - res.DPO
	if math.Abs(res.CCC-want) > 1e-9 {
		t.Fatalf("CCC must equal DSO+DIO-DPO")
	}
}

func TestCashCycleMissingInventory(t *testing.T) {
	p := strongPeriod()
	p.Inventory = nil
	res := CashCycle(history(p))
	if res.Available {
		t.Fatalf("expected unavailable without inventory")
	}
}

func TestCapitalAllocationBounded(t *testing.T) {
	res := CapitalAllocation(history(weakPeriod(), strongPeriod()))
	if res.MaxScore == 0 {
		t.Fatalf("expected evaluable dimensions")
	}
	if res.Score < 0 || res.Score > res.MaxScore {
		t.Fatalf("score %v outside [0,%v]", res.Score, res.MaxScore)
	}
}

func TestEngineOverallBounded(t *testing.T) {
	qs := NewEngine().Score(history(weakPeriod(), strongPeriod()))
	if qs.Overall < 0 || qs.Overall > 100 {
		t.Fatalf("overall out of [0,100]: %v", qs.Overall)
	}
	if qs.Overall < 50 {
		t.Fatalf("strong synthetic history should score well, got %v", qs.Overall)
	}
}

func TestEngineEmptyHistory(t *testing.T) {
	qs := NewEngine().Score(models.StatementHistory{Ticker: "EMPTY"})
	if qs.Overall != 0 {
		t.Fatalf("empty history scores 0, got %v", qs.Overall)
	}
}
