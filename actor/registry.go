package actor

import (
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// registryState is the MCP actor's private state: two maps that must stay
// mutual inverses at every quiescent point.
type registryState struct {
	byName map[string]Address
	byID   map[uuid.UUID]string
}

// Registry is the caller-side handle to a running MCP actor: it exposes
// two synchronous RPC-style operations over an otherwise asynchronous
// actor, by allocating a private reply mailbox and blocking on it.
type Registry struct {
	mu        sync.Mutex
	mcp       Address
	replyBox  Mailbox[*Message]
	replyAddr Address
	closed    bool
}

// NewRegistry spawns the MCP actor and returns a Registry handle to it.
func NewRegistry() *Registry {
	mcp := newBuilderMCP().Spawn()

	replyAddr, replyBox := NewFakeAddress()

	return &Registry{
		mcp:       mcp,
		replyBox:  replyBox,
		replyAddr: replyAddr,
	}
}

// Register binds name to addr. It returns true the first time name is
// registered and false on every subsequent call with the same name, until
// the registrant exits.
func (r *Registry) Register(name string, addr Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	payload := Map(map[string]Datum{
		"name":  Str(name),
		"actor": Act(addr),
	})

	register().WithSender(r.replyAddr).WithDatum(payload).SendTo(r.mcp)

	reply, ok := <-r.replyBox.ReceiveC()
	if !ok {
		return false
	}

	_, isStr := reply.Datum.AsStr()

	return isStr
}

// WhereIs looks up name and returns its Address if bound.
func (r *Registry) WhereIs(name string) (Address, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Address{}, false
	}

	whereIs().WithSender(r.replyAddr).WithStr(name).SendTo(r.mcp)

	reply, ok := <-r.replyBox.ReceiveC()
	if !ok {
		return Address{}, false
	}

	return reply.Datum.AsAddr()
}

// Close performs the documented synchronous teardown: it links the
// Registry's reply mailbox to the MCP actor, sends Shutdown, and blocks
// until the resulting Exited notification arrives. Idempotent.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.closed = true

	Link().WithSender(r.replyAddr).SendTo(r.mcp)
	Shutdown().WithSender(r.replyAddr).SendTo(r.mcp)

	<-r.replyBox.ReceiveC()
	r.replyBox.Stop()
}

func newBuilderMCP() *ActorBuilder[registryState] {
	initial := registryState{
		byName: make(map[string]Address),
		byID:   make(map[uuid.UUID]string),
	}

	return NewBuilder(initial).
		WithMatch(isKind(KindRegister)).
		WithAction(handleRegister).
		WithMatch(isKind(KindWhereIs)).
		WithAction(handleWhereIs).
		WithMatch(isKind(KindExited)).
		WithAction(handleExited).
		WithMatch(isKind(KindShutdown)).
		WithAction(handleShutdownBroadcast)
}

func isKind(k Kind) Matcher[registryState] {
	return func(msg *Message, _ *registryState) bool {
		return msg.Kind.Equal(k)
	}
}

func handleRegister(msg *Message, st *registryState, self Address) error {
	name, addr, err := parseRegisterPayload(msg.Datum)
	if err != nil {
		registerResponse().WithSender(self).SendTo(msg.Sender)
		return nil
	}

	if _, taken := st.byName[name]; taken {
		registerResponse().WithSender(self).SendTo(msg.Sender)
		return nil
	}

	st.byName[name] = addr
	st.byID[addr.ID()] = name

	Link().WithSender(self).SendTo(addr)
	registerResponse().WithSender(self).WithStr(name).SendTo(msg.Sender)

	return nil
}

func parseRegisterPayload(d Datum) (name string, addr Address, err error) {
	m, ok := d.AsMap()
	if !ok {
		return "", Address{}, pkgerrors.New("actor: Register datum is not a Map")
	}

	nameDatum, ok := m["name"]
	if !ok {
		return "", Address{}, pkgerrors.New("actor: Register datum missing \"name\"")
	}

	name, ok = nameDatum.AsStr()
	if !ok {
		return "", Address{}, pkgerrors.New("actor: Register \"name\" is not a Str")
	}

	actorDatum, ok := m["actor"]
	if !ok {
		return "", Address{}, pkgerrors.New("actor: Register datum missing \"actor\"")
	}

	addr, ok = actorDatum.AsAddr()
	if !ok {
		return "", Address{}, pkgerrors.New("actor: Register \"actor\" is not an Act")
	}

	return name, addr, nil
}

func handleWhereIs(msg *Message, st *registryState, self Address) error {
	name, ok := msg.Datum.AsStr()
	if !ok {
		whereIsResponse().WithSender(self).SendTo(msg.Sender)
		return nil
	}

	addr, found := st.byName[name]
	if !found {
		whereIsResponse().WithSender(self).SendTo(msg.Sender)
		return nil
	}

	whereIsResponse().WithSender(self).WithAct(addr).SendTo(msg.Sender)

	return nil
}

func handleExited(msg *Message, st *registryState, _ Address) error {
	name, found := st.byID[msg.Sender.ID()]
	if !found {
		return nil
	}

	delete(st.byID, msg.Sender.ID())
	delete(st.byName, name)

	return nil
}

// handleShutdownBroadcast tells every still-registered actor to shut down
// before the MCP's own system post-action terminates the registry. The
// registrants' eventual Exited replies race the registry's own exit and
// may arrive after it has already gone; they are dropped, same as any send
// to a dead mailbox. errgroup runs one send per registrant concurrently (no
// limit on their number) and waits for all of them, so a slow registrant
// mailbox can't serialize the broadcast behind the others.
func handleShutdownBroadcast(_ *Message, st *registryState, self Address) error {
	var g errgroup.Group

	for _, addr := range st.byName {
		addr := addr
		g.Go(func() error {
			Shutdown().WithSender(self).SendTo(addr)
			return nil
		})
	}

	_ = g.Wait()

	return nil
}
