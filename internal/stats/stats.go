// Package stats folds sets of weekly reports into financial and usage
// rollups over an optional date window.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"fleetledger-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Window is an inclusive date range over week start dates. Dates use the
// YYYY-MM-DD form, which compares correctly as plain strings.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the given week start date falls inside the window.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// YearToDate returns the window from January 1st of now's year through now.
func YearToDate(now time.Time) Window {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return Window{
		Start: jan1.Format(dateLayout),
		End:   now.Format(dateLayout),
	}
}

// TrailingMonths returns the window covering the n months up to now.
func TrailingMonths(now time.Time, n int) Window {
	return Window{
		Start: now.AddDate(0, -n, 0).Format(dateLayout),
		End:   now.Format(dateLayout),
	}
}

// Stats is the rollup over a report set. Totals sum the matching reports;
// averages divide by the report count. TotalProfit sums the three income
// figures only; driver earnings and expenses are reported alongside, not
// subtracted.
type Stats struct {
	TotalReports int32 `json:"total_reports"`

	TotalMileage         int64           `json:"total_mileage"`
	AverageWeeklyMileage decimal.Decimal `json:"average_weekly_mileage"`

	TotalMaintenanceExpenses         decimal.Decimal `json:"total_maintenance_expenses"`
	AverageWeeklyMaintenanceExpenses decimal.Decimal `json:"average_weekly_maintenance_expenses"`

	TotalGasExpenses         decimal.Decimal `json:"total_gas_expenses"`
	AverageWeeklyGasExpenses decimal.Decimal `json:"average_weekly_gas_expenses"`

	TotalRideShareIncome decimal.Decimal `json:"total_ride_share_income"`
	TotalRentalIncome    decimal.Decimal `json:"total_rental_income"`
	TotalTaxiIncome      decimal.Decimal `json:"total_taxi_income"`

	TotalDriverEarnings         decimal.Decimal `json:"total_driver_earnings"`
	AverageWeeklyDriverEarnings decimal.Decimal `json:"average_weekly_driver_earnings"`

	TotalProfit         decimal.Decimal `json:"total_profit"`
	AverageWeeklyProfit decimal.Decimal `json:"average_weekly_profit"`

	// Currency is passed through from the first report in the filtered set.
	// No conversion happens; MixedCurrency flags a set whose reports
	// disagree, so callers can warn about the ambiguous units.
	Currency      string `json:"currency"`
	MixedCurrency bool   `json:"mixed_currency,omitempty"`
}

// Aggregate folds the given reports into a Stats record. When window is
// non-nil, only reports whose week start date falls inside it are counted.
// Zero matching reports yields an all-zero Stats, not an error.
func Aggregate(reports []domain.WeeklyReport, window *Window) Stats {
	s := zeroStats()

	for i := range reports {
		r := &reports[i]
		if window != nil && !window.Contains(r.WeekStartDate) {
			continue
		}

		if s.TotalReports == 0 {
			s.Currency = r.Currency
		} else if r.Currency != s.Currency {
			s.MixedCurrency = true
		}
		s.TotalReports++

		s.TotalMileage += int64(r.MileageDelta())
		s.TotalMaintenanceExpenses = s.TotalMaintenanceExpenses.Add(r.MaintenanceExpenses)
		s.TotalGasExpenses = s.TotalGasExpenses.Add(r.GasExpense)
		s.TotalRideShareIncome = s.TotalRideShareIncome.Add(r.RideShareIncome)
		s.TotalRentalIncome = s.TotalRentalIncome.Add(r.RentalIncome)
		s.TotalTaxiIncome = s.TotalTaxiIncome.Add(r.TaxiIncome)
		s.TotalDriverEarnings = s.TotalDriverEarnings.Add(r.DriverEarnings)
	}

	if s.TotalReports == 0 {
		return s
	}

	s.TotalProfit = s.TotalRideShareIncome.Add(s.TotalRentalIncome).Add(s.TotalTaxiIncome)

	count := decimal.NewFromInt32(s.TotalReports)
	s.AverageWeeklyMileage = decimal.NewFromInt(s.TotalMileage).DivRound(count, 2)
	s.AverageWeeklyMaintenanceExpenses = s.TotalMaintenanceExpenses.DivRound(count, 2)
	s.AverageWeeklyGasExpenses = s.TotalGasExpenses.DivRound(count, 2)
	s.AverageWeeklyDriverEarnings = s.TotalDriverEarnings.DivRound(count, 2)
	s.AverageWeeklyProfit = s.TotalProfit.DivRound(count, 2)

	return s
}

func zeroStats() Stats {
	zero := decimal.Zero
	return Stats{
		AverageWeeklyMileage:             zero,
		TotalMaintenanceExpenses:         zero,
		AverageWeeklyMaintenanceExpenses: zero,
		TotalGasExpenses:                 zero,
		AverageWeeklyGasExpenses:         zero,
		TotalRideShareIncome:             zero,
		TotalRentalIncome:                zero,
		TotalTaxiIncome:                  zero,
		TotalDriverEarnings:              zero,
		AverageWeeklyDriverEarnings:      zero,
		TotalProfit:                      zero,
		AverageWeeklyProfit:              zero,
	}
}
