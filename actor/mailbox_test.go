package actor_test

import (
	"context"
	"testing"

	"github.com/hhexo/mecha/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxFIFO(t *testing.T) {
	mb := actor.NewMailbox[int]()
	mb.Start(context.Background())
	defer mb.Stop()

	for i := 0; i < 100; i++ {
		mb.SendC() <- i
	}

	for i := 0; i < 100; i++ {
		require.Equal(t, i, <-mb.ReceiveC())
	}
}

func TestMailboxStopClosesChannels(t *testing.T) {
	mb := actor.NewMailbox[int]()
	mb.Start(context.Background())

	mb.Stop()

	_, ok := <-mb.ReceiveC()
	assert.False(t, ok)
}

func TestCombineStartsAndStopsAll(t *testing.T) {
	a := actor.NewMailbox[int]()
	b := actor.NewMailbox[int]()

	combined := actor.Combine(a, b)
	combined.Start(context.Background())

	a.SendC() <- 1
	b.SendC() <- 2

	assert.Equal(t, 1, <-a.ReceiveC())
	assert.Equal(t, 2, <-b.ReceiveC())

	combined.Stop()

	_, ok := <-a.ReceiveC()
	assert.False(t, ok)
}
