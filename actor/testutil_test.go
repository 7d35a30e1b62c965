package actor_test

import (
	"testing"
	"time"

	"github.com/hhexo/mecha/actor"
)

const recvTimeout = 2 * time.Second

// recv reads the next message off mb or fails the test if none arrives
// within recvTimeout. Actors run on their own goroutines, so tests observe
// them through channel reads rather than sleeps.
func recv(t *testing.T, mb actor.Mailbox[*actor.Message]) *actor.Message {
	t.Helper()

	select {
	case msg, ok := <-mb.ReceiveC():
		if !ok {
			t.Fatal("mailbox closed before expected message arrived")
		}

		return msg
	case <-time.After(recvTimeout):
		t.Fatal("timed out waiting for message")

		return nil
	}
}

func assertNoMessage(t *testing.T, mb actor.Mailbox[*actor.Message]) {
	t.Helper()

	select {
	case msg, ok := <-mb.ReceiveC():
		if ok {
			t.Fatalf("expected no message, got %v", msg.Kind)
		}
	case <-time.After(100 * time.Millisecond):
	}
}
