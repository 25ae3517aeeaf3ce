package tracker

const GlobalLimitWindowSize = 50

const TextCommentOpCode = "0x00000000"

// TicketCommentPrefix starts the comment a buyer attaches to the payment,
// e.g. "raffle:12".
const TicketCommentPrefix = "raffle:"
