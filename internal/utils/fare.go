package utils

// RefundSupplementPercent is the surcharge rate for the refundable option.
const RefundSupplementPercent = 15

// Quote is the pricing breakdown for a reservation.
type Quote struct {
	Subtotal   int64 `json:"subtotal"`
	Supplement int64 `json:"supplement"`
	Total      int64 `json:"total"`
}

// ComputePricing maps (unit price, seats, refundable flag) to a Quote.
// Amounts are whole FCFA; the supplement rounds to the nearest unit.
// Pure: no I/O, identical inputs always give identical outputs.
func ComputePricing(unitPrice int64, seats int, refundable bool) Quote {
	subtotal := unitPrice * int64(seats)
	var supplement int64
	if refundable {
		supplement = roundPercent(subtotal, RefundSupplementPercent)
	}
	return Quote{
		Subtotal:   subtotal,
		Supplement: supplement,
		Total:      subtotal + supplement,
	}
}

// roundPercent computes amount*pct/100 rounded half up, in integer
// arithmetic so no float creeps into money.
func roundPercent(amount, pct int64) int64 {
	if amount <= 0 {
		return 0
	}
	return (amount*pct + 50) / 100
}
