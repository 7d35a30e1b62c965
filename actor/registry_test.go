package actor_test

import (
	"testing"
	"time"

	"github.com/hhexo/mecha/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDuplicateNameAndTeardown(t *testing.T) {
	reg := actor.NewRegistry()
	defer reg.Close()

	echo := actor.Spawn(echoHandler)

	require.True(t, reg.Register("echo", echo))
	require.False(t, reg.Register("echo", echo))

	got, ok := reg.WhereIs("echo")
	require.True(t, ok)
	assert.Equal(t, echo.ID(), got.ID())

	actor.Shutdown().SendTo(echo)

	require.Eventually(t, func() bool {
		_, stillThere := reg.WhereIs("echo")
		return !stillThere
	}, recvTimeout, 5*time.Millisecond)
}

func TestRegistryWhereIsUnknown(t *testing.T) {
	reg := actor.NewRegistry()
	defer reg.Close()

	_, ok := reg.WhereIs("nope")
	assert.False(t, ok)
}

func TestRegistryCloseBroadcastsShutdown(t *testing.T) {
	reg := actor.NewRegistry()

	fake, fakeBox := actor.NewFakeAddress()
	defer fakeBox.Stop()

	registrant := actor.SpawnLink(func(*actor.Message, actor.Address) {}, fake)
	require.True(t, reg.Register("r", registrant))

	reg.Close()

	got := recv(t, fakeBox)
	require.True(t, got.Kind.Equal(actor.KindExited))
}
