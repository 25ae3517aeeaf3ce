package raffle

import "errors"

var (
	ErrInvalidParameters     = errors.New("invalid parameters")
	ErrRaffleNotFound        = errors.New("raffle not found")
	ErrRaffleClosed          = errors.New("raffle closed")
	ErrNoTicketsAvailable    = errors.New("no tickets available")
	ErrAlreadyParticipated   = errors.New("already participated")
	ErrOnlyOrganizer         = errors.New("only organizer")
	ErrOnlyWinner            = errors.New("only winner")
	ErrNoPrizeToClaim        = errors.New("no prize to claim")
	ErrTransferFailed        = errors.New("transfer failed")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrOnlyPlatformAuthority = errors.New("only platform authority")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidParameters, "InvalidParameters"},
	{ErrRaffleNotFound, "RaffleNotFound"},
	{ErrRaffleClosed, "RaffleClosed"},
	{ErrNoTicketsAvailable, "NoTicketsAvailable"},
	{ErrAlreadyParticipated, "AlreadyParticipated"},
	{ErrOnlyOrganizer, "OnlyOrganizer"},
	{ErrOnlyWinner, "OnlyWinner"},
	{ErrNoPrizeToClaim, "NoPrizeToClaim"},
	{ErrTransferFailed, "TransferFailed"},
	{ErrInsufficientFunds, "InsufficientFunds"},
	{ErrOnlyPlatformAuthority, "OnlyPlatformAuthority"},
}

// Kind returns the canonical name of a raffle error, or "" when err is not
// one of them.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}

// IsDomainError reports whether err belongs to the closed set of raffle
// errors, as opposed to a registry or randomness failure.
func IsDomainError(err error) bool {
	return Kind(err) != ""
}
