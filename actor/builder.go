package actor

import (
	"fmt"
	"log/slog"

	pkgerrors "github.com/pkg/errors"
)

// Matcher is a pure predicate over a Message and the actor's current state.
// It must not mutate state.
type Matcher[S any] func(msg *Message, state *S) bool

// Action is an effectful transition over a Message, the actor's state, and
// its own Address. Returning a non-nil error is the "let it crash"
// boundary: the actor emits Exited{Str(reason)} to every uplink and
// terminates without draining its pending queue.
type Action[S any] func(msg *Message, state *S, self Address) error

// ActorBuilder constructs a declarative actor from an initial state and an
// ordered sequence of (matcher, action-list) rules. The zero value is not
// usable; use NewBuilder.
type ActorBuilder[S any] struct {
	state    S
	matchers []Matcher[S]
	actions  [][]Action[S]
}

// NewBuilder starts a declarative actor with the given initial state.
func NewBuilder[S any](initial S) *ActorBuilder[S] {
	return &ActorBuilder[S]{state: initial}
}

// WithMatch appends a new matcher, opening a fresh (initially empty) action
// list that subsequent WithAction calls attach to.
func (b *ActorBuilder[S]) WithMatch(m Matcher[S]) *ActorBuilder[S] {
	b.matchers = append(b.matchers, m)
	b.actions = append(b.actions, nil)

	return b
}

// WithAction appends a to the action list of the most recently declared
// matcher. Calling WithAction before any WithMatch is a programming error
// and panics.
func (b *ActorBuilder[S]) WithAction(a Action[S]) *ActorBuilder[S] {
	if len(b.matchers) == 0 {
		slog.Error("actor: WithAction called before any WithMatch")
		panic(pkgerrors.New("actor: WithAction called before any WithMatch"))
	}

	last := len(b.actions) - 1
	b.actions[last] = append(b.actions[last], a)

	return b
}

// Spawn starts the declarative actor with no uplinks and returns its
// Address.
func (b *ActorBuilder[S]) Spawn() Address {
	return b.spawn(nil)
}

// SpawnLink starts the declarative actor with uplink already linked before
// the returned Address is usable by anyone else, exactly like
// process.go's SpawnLink.
func (b *ActorBuilder[S]) SpawnLink(uplink Address) Address {
	return b.spawn(&uplink)
}

func (b *ActorBuilder[S]) spawn(uplink *Address) Address {
	mb := NewMailbox[*Message]()
	mb.Start(backgroundContext{})

	self := newAddress(mb)

	mb.SendC() <- initMsg().WithSender(nullRoute()).build()

	if uplink != nil {
		mb.SendC() <- Link().WithSender(*uplink).build()
	}

	p := &declarativeProcess[S]{
		state:    b.state,
		matchers: b.matchers,
		actions:  b.actions,
		self:     self,
		mbox:     mb,
	}
	p.start()

	return self
}

type declarativeProcess[S any] struct {
	state    S
	matchers []Matcher[S]
	actions  [][]Action[S]
	pending  []*Message
	uplinks  []Address
	self     Address
	mbox     Mailbox[*Message]
}

func (p *declarativeProcess[S]) start() {
	go p.run()
}

// run implements the dispatch algorithm: rescan the pending queue on every
// cycle, earliest-message-wins, matcher-declared-order-wins among matchers
// of that message, system messages handled once no user matcher fires,
// block for new input only once the queue is exhausted of matches.
func (p *declarativeProcess[S]) run() {
	for {
		if msgIdx, matchIdx, ok := p.findUserMatch(); ok {
			msg := p.pending[msgIdx]

			if err := p.runActions(msg, matchIdx); err != nil {
				notifyUplinks(p.uplinks, p.self, Str(err.Error()))
				p.pending = nil
				p.mbox.Stop()

				return
			}

			p.removeAt(msgIdx)

			if applyPostAction(msg, p.self, &p.uplinks) {
				p.mbox.Stop()
				return
			}

			continue
		}

		if msgIdx, ok := p.findSystemHandled(); ok {
			msg := p.pending[msgIdx]
			p.removeAt(msgIdx)

			if applyPostAction(msg, p.self, &p.uplinks) {
				p.mbox.Stop()
				return
			}

			continue
		}

		msg, ok := <-p.mbox.ReceiveC()
		if !ok {
			return
		}

		p.pending = append(p.pending, msg)
	}
}

func (p *declarativeProcess[S]) findUserMatch() (msgIdx, matchIdx int, ok bool) {
	for i, msg := range p.pending {
		for mi, match := range p.matchers {
			if match(msg, &p.state) {
				return i, mi, true
			}
		}
	}

	return 0, 0, false
}

func (p *declarativeProcess[S]) findSystemHandled() (msgIdx int, ok bool) {
	for i, msg := range p.pending {
		if msg.Kind.Equal(KindLink) || msg.Kind.Equal(KindShutdown) {
			return i, true
		}
	}

	return 0, false
}

func (p *declarativeProcess[S]) runActions(msg *Message, matchIdx int) error {
	for _, act := range p.actions[matchIdx] {
		if err := p.runOneAction(act, msg); err != nil {
			return err
		}
	}

	return nil
}

// runOneAction invokes act and converts a panic into the same "let it
// crash" error path as a returned error, logging the diagnostic since
// nothing else observes it otherwise.
func (p *declarativeProcess[S]) runOneAction(act Action[S], msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			slog.Error("actor: action panicked", "self", p.self.ID(), "kind", msg.Kind.String(), "panic", r)
		}
	}()

	return act(msg, &p.state, p.self)
}

func (p *declarativeProcess[S]) removeAt(idx int) {
	p.pending = append(p.pending[:idx], p.pending[idx+1:]...)
}
