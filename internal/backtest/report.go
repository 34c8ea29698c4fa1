package backtest

import (
	"math"

	"github.com/judas-33/momentum/internal/model"
)

// Summarize reduces a ledger and capital trajectory into the run summary.
// barCount is the length of the aligned daily series, used to annualize
// the total return; with zero bars the annualized return is reported as
// zero. A run with no losing trades has an undefined profit factor,
// reported through ProfitFactorDefined rather than a division fault.
func Summarize(symbol string, ledger *Ledger, capital []float64, initialCapital float64, barCount int) *model.Result {
	finalCapital := capital[len(capital)-1]
	total := ledger.Total()

	successRatio := 0.0
	if total > 0 {
		successRatio = float64(ledger.Wins()) / float64(total)
	}

	profitPct := (finalCapital - initialCapital) / initialCapital * 100
	annualized := 0.0
	if barCount > 0 {
		annualized = math.Pow(1+profitPct/100, 365/float64(barCount)) - 1
	}

	profitFactor := 0.0
	defined := false
	if loss := ledger.GrossLossPct(); loss > 0 {
		profitFactor = ledger.GrossWinPct() / loss
		defined = true
	}

	return &model.Result{
		Symbol:              symbol,
		TotalTrades:         total,
		SuccessRatio:        successRatio,
		FinalCapital:        finalCapital,
		StrategyProfitPct:   profitPct,
		AnnualizedReturn:    annualized,
		TotalSignals:        total,
		ProfitFactor:        profitFactor,
		ProfitFactorDefined: defined,
		Trades:              ledger.Trades(),
		Capital:             capital,
	}
}
