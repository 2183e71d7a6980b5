package cart

import "github.com/shopspring/decimal"

// LineTotal is unitPrice × quantity, unrounded.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotal sums unitPrice × effective quantity over lines. The effective
// quantity of a line is its entry in pending when present, otherwise the
// server quantity. It never reads a previously computed total.
func ComputeTotal(lines []Line, pending map[string]int) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(LineTotal(line.UnitPrice, effectiveQuantity(line, pending)))
	}
	return total
}

func effectiveQuantity(line Line, pending map[string]int) int {
	if q, ok := pending[line.ProductKey]; ok {
		return q
	}
	return line.Quantity
}

// FormatAmount renders an amount with two decimals for display only.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
