package actor

// Kind tags a Message with what it means to the runtime. System kinds
// (everything but Link, Shutdown, and Custom) can only be constructed by
// the runtime itself: the unexported fields below keep user code from
// fabricating an Init, Exited, Register, RegisterResponse, WhereIs, or
// WhereIsResponse message.
type Kind struct {
	name   string
	system bool
	custom string
}

func (k Kind) String() string {
	if k.name == kindCustomName {
		return kindCustomName + "(" + k.custom + ")"
	}

	return k.name
}

// IsCustom reports whether this Kind is a user-defined Custom(tag).
func (k Kind) IsCustom() bool { return k.name == kindCustomName }

// IsSystem reports whether this Kind can only be constructed by the
// runtime. Link, Shutdown, and Custom are the only Kinds user code may
// build a Message around.
func (k Kind) IsSystem() bool { return k.system }

// Tag returns the tag of a Custom kind, or "" for any system kind.
func (k Kind) Tag() string { return k.custom }

// Equal reports whether two Kinds are the same variant (and, for Custom,
// the same tag).
func (k Kind) Equal(other Kind) bool {
	return k.name == other.name && k.custom == other.custom
}

const kindCustomName = "Custom"

var (
	KindInit             = Kind{name: "Init", system: true}
	KindExited           = Kind{name: "Exited", system: true}
	KindLink             = Kind{name: "Link"}
	KindShutdown         = Kind{name: "Shutdown"}
	KindRegister         = Kind{name: "Register", system: true}
	KindRegisterResponse = Kind{name: "RegisterResponse", system: true}
	KindWhereIs          = Kind{name: "WhereIs", system: true}
	KindWhereIsResponse  = Kind{name: "WhereIsResponse", system: true}
)

// Custom returns the Kind for a user-defined message tagged tag.
func Custom(tag string) Kind {
	return Kind{name: kindCustomName, custom: tag}
}

// Message is the unit of communication between actors: a Kind, the
// Address that sent it, and a Datum payload.
type Message struct {
	Kind   Kind
	Sender Address
	Datum  Datum
}

// Builder accumulates a sender and a datum before a Message is dispatched.
// Zero value is not usable; obtain one from Link, Shutdown, or CustomMsg (user
// code) or from the runtime-only constructors in this package.
type Builder struct {
	kind   Kind
	sender *Address
	datum  Datum
}

func newBuilder(k Kind) *Builder {
	return &Builder{kind: k, datum: Void()}
}

// Link starts a builder for a Link message: user code sends these to
// register itself (or any Address) as an uplink of the recipient.
func Link() *Builder { return newBuilder(KindLink) }

// Shutdown starts a builder for a Shutdown message: the sole supported
// cancellation mechanism.
func Shutdown() *Builder { return newBuilder(KindShutdown) }

// CustomMsg starts a builder for a user-defined Custom(tag) message.
func CustomMsg(tag string) *Builder { return newBuilder(Custom(tag)) }

// runtime-only builders: exported only within this package so user code
// cannot construct these kinds.
func initMsg() *Builder          { return newBuilder(KindInit) }
func exited() *Builder           { return newBuilder(KindExited) }
func register() *Builder         { return newBuilder(KindRegister) }
func registerResponse() *Builder { return newBuilder(KindRegisterResponse) }
func whereIs() *Builder          { return newBuilder(KindWhereIs) }
func whereIsResponse() *Builder  { return newBuilder(KindWhereIsResponse) }

// WithSender sets the message's sender.
func (b *Builder) WithSender(a Address) *Builder {
	b.sender = &a
	return b
}

// WithDatum sets the message's datum directly.
func (b *Builder) WithDatum(d Datum) *Builder {
	b.datum = d
	return b
}

// WithI64 sets the message's datum to I64(v).
func (b *Builder) WithI64(v int64) *Builder { return b.WithDatum(I64(v)) }

// WithU64 sets the message's datum to U64(v).
func (b *Builder) WithU64(v uint64) *Builder { return b.WithDatum(U64(v)) }

// WithF64 sets the message's datum to F64(v).
func (b *Builder) WithF64(v float64) *Builder { return b.WithDatum(F64(v)) }

// WithStr sets the message's datum to Str(v).
func (b *Builder) WithStr(v string) *Builder { return b.WithDatum(Str(v)) }

// WithMap sets the message's datum to Map(v).
func (b *Builder) WithMap(v map[string]Datum) *Builder { return b.WithDatum(Map(v)) }

// WithAct sets the message's datum to Act(v).
func (b *Builder) WithAct(v Address) *Builder { return b.WithDatum(Act(v)) }

func (b *Builder) build() *Message {
	sender := nullRoute()
	if b.sender != nil {
		sender = *b.sender
	}

	return &Message{Kind: b.kind, Sender: sender, Datum: b.datum}
}

// SendTo builds the Message and dispatches it to target, then discards the
// builder. Sending to a terminated actor is silently dropped.
func (b *Builder) SendTo(target Address) {
	target.send(b.build())
}
