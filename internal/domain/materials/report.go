package materials

import "github.com/shopspring/decimal"

// UsageReport — «используется в»: строки и общее необходимое количество.
type UsageReport struct {
	Rows  []Usage
	Total decimal.Decimal
}

func NewUsageReport(rows []Usage) UsageReport {
	total := decimal.Zero
	for _, u := range rows {
		total = total.Add(u.RequiredQuantity)
	}
	if rows == nil {
		rows = []Usage{}
	}
	return UsageReport{Rows: rows, Total: total}
}

func (r UsageReport) TotalString() string { return FormatAmount(r.Total) }

// FormatAmount — число с двумя знаками после точки, как в таблицах.
func FormatAmount(d decimal.Decimal) string { return d.StringFixed(amountPlaces) }
