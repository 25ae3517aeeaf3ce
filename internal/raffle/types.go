package raffle

// AccountID is an opaque caller identity. Adapters decide its textual form
// (raw TON address, gateway user id, ...); the engine only compares it.
type AccountID string

func (a AccountID) String() string {
	return string(a)
}

const (
	MaxTicketsLimit    uint32 = 10000
	MaxFeePercent      uint8  = 20
	MaxStakePercent    uint8  = 50
	MaxCombinedPercent uint8  = 70
)

// Info is the persisted state of a single raffle.
type Info struct {
	Organizer    AccountID  `json:"organizer"`
	Title        string     `json:"title"`
	MaxTickets   uint32     `json:"max_tickets"`
	TicketPrice  Amount     `json:"ticket_price"`
	FeePercent   uint8      `json:"fee_percent"`
	StakePercent uint8      `json:"stake_percent"`
	TicketsSold  uint32     `json:"tickets_sold"`
	Winner       *AccountID `json:"winner,omitempty"`
	IsClosed     bool       `json:"is_closed"`
	TotalStake   Amount     `json:"total_stake"`
	CreatedAt    uint64     `json:"created_at"`
}

type CreateParams struct {
	Title        string
	MaxTickets   uint32
	TicketPrice  Amount
	FeePercent   uint8
	StakePercent uint8
}

// Call carries what the ledger attaches to an incoming call: the verified
// caller and the value transferred with it.
type Call struct {
	Caller AccountID
	Value  Amount
}

type Platform struct {
	Authority     AccountID
	FeeAccount    AccountID
	RaffleCounter uint32
}

type Transfer struct {
	To     AccountID
	Amount Amount
}
