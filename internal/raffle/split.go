package raffle

// Split is the three-way division of a ticket payment.
type Split struct {
	Fee       Amount
	Stake     Amount
	Organizer Amount
}

// SplitPayment floors fee and stake independently; the organizer share
// absorbs every rounding remainder, so the parts always sum to payment.
func SplitPayment(payment Amount, feePercent, stakePercent uint8) Split {
	fee := percentOf(payment, feePercent)
	stake := percentOf(payment, stakePercent)
	return Split{
		Fee:       fee,
		Stake:     stake,
		Organizer: payment.Sub(fee).Sub(stake),
	}
}

func percentOf(payment Amount, percent uint8) Amount {
	quotient, _ := payment.Mul(AmountFromUint64(uint64(percent))).QuoRem(hundred, 0)
	return quotient
}
