package notifier

import (
	"fmt"
	"strings"

	"github.com/judas-33/momentum/internal/model"
)

// FormatRunReport formats a backtest result into a Telegram message.
func FormatRunReport(res *model.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Momentum Backtest</b> | %s\n\n", res.Symbol))

	b.WriteString(fmt.Sprintf("Total signals: %d\n", res.TotalSignals))
	b.WriteString(fmt.Sprintf("Success ratio: %.2f\n", res.SuccessRatio))
	b.WriteString(fmt.Sprintf("Strategy profit: %.2f%%\n", res.StrategyProfitPct))
	b.WriteString(fmt.Sprintf("Final capital: %.2f\n", res.FinalCapital))
	b.WriteString(fmt.Sprintf("Annualized return: %.2f%%\n", res.AnnualizedReturn*100))
	if res.ProfitFactorDefined {
		b.WriteString(fmt.Sprintf("Profit factor: %.2f\n", res.ProfitFactor))
	} else {
		b.WriteString("Profit factor: n/a (no losing trades)\n")
	}

	if len(res.Trades) > 0 {
		b.WriteString("\n📋 <b>Trades:</b>\n")
		for _, t := range res.Trades {
			b.WriteString(fmt.Sprintf("  %s %.2f → %s %.2f  %+.2f%%  %dd  [%s]\n",
				t.EntryTime.Format("2006-01-02"), t.EntryPrice,
				t.ExitTime.Format("2006-01-02"), t.ExitPrice,
				t.PnlPct*100, t.HoldingDays, t.Reason))
		}
	}

	return b.String()
}

// FormatCapitalCurve formats the capital trajectory for display.
func FormatCapitalCurve(capital []float64) string {
	var b strings.Builder
	b.WriteString("💰 <b>Capital trajectory:</b>\n")
	for i, c := range capital {
		b.WriteString(fmt.Sprintf("  %d: %.2f\n", i, c))
	}
	return b.String()
}
