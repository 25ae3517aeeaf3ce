package raffle

type Event interface {
	Name() string
}

type RaffleCreated struct {
	RaffleID    uint32    `json:"raffle_id"`
	Organizer   AccountID `json:"organizer"`
	Title       string    `json:"title"`
	MaxTickets  uint32    `json:"max_tickets"`
	TicketPrice Amount    `json:"ticket_price"`
}

func (RaffleCreated) Name() string { return "raffle_created" }

type TicketPurchased struct {
	RaffleID     uint32    `json:"raffle_id"`
	Buyer        AccountID `json:"buyer"`
	TicketNumber uint32    `json:"ticket_number"`
	AmountPaid   Amount    `json:"amount_paid"`
}

func (TicketPurchased) Name() string { return "ticket_purchased" }

type RaffleClosed struct {
	RaffleID    uint32    `json:"raffle_id"`
	Winner      AccountID `json:"winner"`
	PrizeAmount Amount    `json:"prize_amount"`
}

func (RaffleClosed) Name() string { return "raffle_closed" }
