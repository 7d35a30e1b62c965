package actor_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hhexo/mecha/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	active bool
	count  int
}

func isCustomTag(tag string) actor.Matcher[counterState] {
	return func(msg *actor.Message, _ *counterState) bool {
		return msg.Kind.IsCustom() && msg.Kind.Tag() == tag
	}
}

func TestStatefulCounterWithGate(t *testing.T) {
	var observedCount int64

	b := actor.NewBuilder(counterState{}).
		WithMatch(func(msg *actor.Message, st *counterState) bool {
			return msg.Kind.IsCustom() && msg.Kind.Tag() == ":inc" && st.active
		}).
		WithAction(func(_ *actor.Message, st *counterState, _ actor.Address) error {
			st.count++
			atomic.AddInt64(&observedCount, 1)
			return nil
		}).
		WithMatch(isCustomTag(":activate")).
		WithAction(func(_ *actor.Message, st *counterState, _ actor.Address) error {
			st.active = true
			return nil
		})

	driver, driverBox := actor.NewFakeAddress()
	defer driverBox.Stop()

	counter := b.SpawnLink(driver)

	actor.CustomMsg(":inc").SendTo(counter)
	actor.CustomMsg(":inc").SendTo(counter)
	actor.CustomMsg(":inc").SendTo(counter)
	actor.CustomMsg(":activate").SendTo(counter)
	actor.Shutdown().SendTo(counter)

	got := recv(t, driverBox)
	require.True(t, got.Kind.Equal(actor.KindExited))
	assert.True(t, got.Datum.IsVoid())
	assert.EqualValues(t, 3, atomic.LoadInt64(&observedCount))
}

func TestCrashPropagation(t *testing.T) {
	fake, fakeBox := actor.NewFakeAddress()
	defer fakeBox.Stop()

	b := actor.NewBuilder(struct{}{}).
		WithMatch(isCustomTag(":boom")).
		WithAction(func(*actor.Message, *struct{}, actor.Address) error {
			return errors.New("boom")
		})

	crashy := b.SpawnLink(fake)

	actor.CustomMsg(":boom").SendTo(crashy)

	got := recv(t, fakeBox)
	require.True(t, got.Kind.Equal(actor.KindExited))
	reason, ok := got.Datum.AsStr()
	require.True(t, ok)
	assert.Equal(t, "boom", reason)
}

func TestActionPanicCrashesLikeError(t *testing.T) {
	fake, fakeBox := actor.NewFakeAddress()
	defer fakeBox.Stop()

	b := actor.NewBuilder(struct{}{}).
		WithMatch(isCustomTag(":boom")).
		WithAction(func(*actor.Message, *struct{}, actor.Address) error {
			panic("kaboom")
		})

	crashy := b.SpawnLink(fake)

	actor.CustomMsg(":boom").SendTo(crashy)

	got := recv(t, fakeBox)
	require.True(t, got.Kind.Equal(actor.KindExited))
	reason, ok := got.Datum.AsStr()
	require.True(t, ok)
	assert.Equal(t, "kaboom", reason)
}

func TestMatcherFirstWins(t *testing.T) {
	var firstRan, secondRan bool

	b := actor.NewBuilder(struct{}{}).
		WithMatch(isCustomTag(":x")).
		WithAction(func(*actor.Message, *struct{}, actor.Address) error {
			firstRan = true
			return nil
		}).
		WithMatch(isCustomTag(":x")).
		WithAction(func(*actor.Message, *struct{}, actor.Address) error {
			secondRan = true
			return nil
		})

	driver, driverBox := actor.NewFakeAddress()
	defer driverBox.Stop()

	a := b.SpawnLink(driver)

	actor.CustomMsg(":x").SendTo(a)
	actor.Shutdown().SendTo(a)

	recv(t, driverBox) // Exited

	assert.True(t, firstRan)
	assert.False(t, secondRan)
}

func TestWithActionBeforeWithMatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		actor.NewBuilder(struct{}{}).WithAction(
			func(*actor.Message, *struct{}, actor.Address) error { return nil },
		)
	})
}
