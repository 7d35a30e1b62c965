package actor

import (
	"fmt"
	"log/slog"
)

// Handler is the imperative actor's message procedure: invoked once per
// message, with self set to the actor's own Address so it can reply or
// link to other actors. State is owned by the closure the caller supplies;
// the runtime never touches it.
type Handler func(msg *Message, self Address)

// Spawn starts an actor that runs h against every message it receives, with
// no uplinks. Spawn returns as soon as the actor's mailbox exists and its
// Init message is queued; the actor's goroutine may not have run yet.
func Spawn(h Handler) Address {
	return spawn(h, nil)
}

// SpawnLink starts an actor exactly like Spawn, but also establishes uplink
// as an uplink before the returned Address is usable by anyone else: the
// Link is queued ahead of any message a third party could send, so uplink
// is guaranteed to observe the eventual Exited before any externally
// triggered traffic could race it.
func SpawnLink(h Handler, uplink Address) Address {
	return spawn(h, &uplink)
}

func spawn(h Handler, uplink *Address) Address {
	mb := NewMailbox[*Message]()
	mb.Start(backgroundContext{})

	self := newAddress(mb)

	// Queue Init ahead of spawning the task, so Init-first holds regardless
	// of scheduling.
	mb.SendC() <- initMsg().WithSender(nullRoute()).build()

	if uplink != nil {
		mb.SendC() <- Link().WithSender(*uplink).build()
	}

	p := &imperativeProcess{
		handler: h,
		self:    self,
		mbox:    mb,
	}
	p.start()

	return self
}

type imperativeProcess struct {
	handler Handler
	self    Address
	mbox    Mailbox[*Message]
	uplinks []Address
}

func (p *imperativeProcess) start() {
	go func() {
		for msg := range p.mbox.ReceiveC() {
			if reason, crashed := runHandler(p.handler, msg, p.self); crashed {
				notifyUplinks(p.uplinks, p.self, Str(reason))
				p.mbox.Stop()
				return
			}

			if done := applyPostAction(msg, p.self, &p.uplinks); done {
				p.mbox.Stop()
				return
			}
		}
	}()
}

// runHandler invokes h and converts a panic into a crash: the panic value
// becomes the reason the caller reports to uplinks as Exited{Str(reason)},
// the same notification a failing declarative Action produces. It logs the
// diagnostic since nothing else in the caller's code path observes it
// otherwise.
func runHandler(h Handler, msg *Message, self Address) (reason string, crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			reason = fmt.Sprint(r)
			crashed = true
			slog.Error("actor: handler panicked", "self", self.ID(), "kind", msg.Kind.String(), "panic", r)
		}
	}()

	h(msg, self)

	return "", false
}

// applyPostAction runs the system-level reaction to msg.Kind that fires
// regardless of any user handler or matcher. It returns true when the
// actor must terminate.
func applyPostAction(msg *Message, self Address, uplinks *[]Address) bool {
	switch {
	case msg.Kind.Equal(KindLink):
		*uplinks = append(*uplinks, msg.Sender) // duplicates allowed
		return false

	case msg.Kind.Equal(KindShutdown):
		notifyUplinks(*uplinks, self, Void())
		return true

	default:
		return false
	}
}

// notifyUplinks sends one Exited{datum} to every address in uplinks. Order
// between uplinks is unspecified; delivery to each is best-effort (a dead
// uplink silently drops it).
func notifyUplinks(uplinks []Address, self Address, datum Datum) {
	for _, u := range uplinks {
		exited().WithSender(self).WithDatum(datum).SendTo(u)
	}
}
