package actor

import "github.com/google/uuid"

// Address is a cheaply-copyable handle to one actor's mailbox: a stable
// identity for equality and map keys, plus a send capability. Copying an
// Address never transfers ownership of the actor it points to, and holding
// one does not keep the actor alive — only a Shutdown message terminates
// it.
type Address struct {
	id   uuid.UUID
	mbox MailboxSender[*Message]
}

// ID returns the Address's stable identity. Two Addresses with equal IDs
// refer to the same actor.
func (a Address) ID() uuid.UUID { return a.id }

// String renders the Address's identity for logging.
func (a Address) String() string { return a.id.String() }

// send delivers msg to the Address's mailbox. A send to an actor that has
// already terminated is silently dropped: the sender has no way to recover
// from a vanished peer, and the link protocol is the supported way to learn
// of termination.
func (a Address) send(msg *Message) {
	if a.mbox == nil {
		return
	}

	defer func() { _ = recover() }() // mailbox closed concurrently with this send

	a.mbox.SendC() <- msg
}

func newAddress(mbox MailboxSender[*Message]) Address {
	return Address{id: uuid.New(), mbox: mbox}
}

// NewFakeAddress returns an Address with a live, running mailbox but no
// actor loop consuming it, for test drivers and other non-actor code that
// wants to receive messages (e.g. to observe a Link's Exited notification,
// or to act as a registry's caller). The returned Mailbox is the caller's
// to read from and to Stop when done.
func NewFakeAddress() (Address, Mailbox[*Message]) {
	mb := NewMailbox[*Message]()
	mb.Start(backgroundContext{})

	return newAddress(mb), mb
}

var nullRouteOnce = newNullRoute()

// nullRoute is the shared Address substituted for a message sent without an
// explicit sender. Its mailbox is immediately stopped, so replies directed
// at it are silently dropped, matching the documented degenerate "null
// route" case. A single shared instance avoids leaking one throwaway
// mailbox per sender-less send.
func nullRoute() Address { return nullRouteOnce }

func newNullRoute() Address {
	mb := NewMailbox[*Message]()
	mb.Start(backgroundContext{})
	mb.Stop()

	return newAddress(mb)
}

type backgroundContext struct{}

func (backgroundContext) Done() <-chan struct{} { return nil }
