package events

import (
	"testing"

	"rafflehub/internal/raffle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	names []string
}

func (r *recorder) Notify(event raffle.Event) {
	r.names = append(r.names, event.Name())
}

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewHub(4)

	first, unsubscribeFirst := hub.Subscribe()
	defer unsubscribeFirst()
	second, unsubscribeSecond := hub.Subscribe()
	assert.Equal(t, 2, hub.Subscribers())

	hub.Notify(raffle.RaffleCreated{RaffleID: 3})

	event := <-first
	assert.Equal(t, raffle.RaffleCreated{RaffleID: 3}, event)
	event = <-second
	assert.Equal(t, "raffle_created", event.Name())

	unsubscribeSecond()
	unsubscribeSecond()
	assert.Equal(t, 1, hub.Subscribers())

	_, open := <-second
	assert.False(t, open)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1)
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Notify(raffle.TicketPurchased{TicketNumber: 1})
	hub.Notify(raffle.TicketPurchased{TicketNumber: 2})

	event := <-ch
	purchased, ok := event.(raffle.TicketPurchased)
	require.True(t, ok)
	assert.Equal(t, uint32(1), purchased.TicketNumber)
	assert.Empty(t, ch)
}

func TestMultiNotifiesInOrder(t *testing.T) {
	first, second := &recorder{}, &recorder{}
	notifier := Multi(first, LogNotifier{}, second)

	notifier.Notify(raffle.RaffleClosed{RaffleID: 1, Winner: "alice"})
	notifier.Notify(raffle.RaffleCreated{RaffleID: 2})

	assert.Equal(t, []string{"raffle_closed", "raffle_created"}, first.names)
	assert.Equal(t, first.names, second.names)
}
