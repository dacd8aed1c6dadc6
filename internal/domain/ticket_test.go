package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tickets := []Ticket{
		{Number: 5, Status: TicketStatusAvailable},
		{Number: 1, Status: TicketStatusAvailable},
		{Number: 2, Status: TicketStatusReserved},
		{Number: 3, Status: TicketStatusConfirmed},
		{Number: 4, Status: TicketStatusConfirmed},
	}

	summary := Summarize(tickets, 2.5)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.Available)
	assert.Equal(t, 1, summary.Reserved)
	assert.Equal(t, 2, summary.Confirmed)
	assert.Equal(t, []int{1, 5}, summary.AvailableNumbers)
	assert.Equal(t, 5.0, summary.Revenue)
	assert.Equal(t, 0.4, summary.Progress)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, 10.0)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.Revenue)
	assert.Equal(t, 0.0, summary.Progress)
	assert.NotNil(t, summary.AvailableNumbers)
	assert.Empty(t, summary.AvailableNumbers)
}

func TestSummarizeNoConfirmed(t *testing.T) {
	tickets := []Ticket{
		{Number: 1, Status: TicketStatusAvailable},
		{Number: 2, Status: TicketStatusReserved},
	}

	summary := Summarize(tickets, 9.99)

	assert.Equal(t, 0.0, summary.Revenue)
	assert.Equal(t, 0.0, summary.Progress)
	assert.Equal(t, []int{1}, summary.AvailableNumbers)
}
