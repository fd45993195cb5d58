package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownAction is returned when raw input resolves to no action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrActionHidden is returned when a hidden action is executed.
	ErrActionHidden = errors.New("action not available")
	// ErrActionDisabled is returned when a disabled action is executed; the
	// predicate's reason accompanies it in the rejection.
	ErrActionDisabled = errors.New("action disabled")
)

// Predicate reports a property of an action for one player given current
// game state. Predicates must be pure: visibility is always a function of
// the state object, never of hidden flags beside it.
type Predicate func(g *Game, p *Player) bool

// EnabledPredicate reports whether an action is enabled for a player and,
// when it is not, the message key explaining why (e.g. "reason-caught").
type EnabledPredicate func(g *Game, p *Player) (bool, string)

// LabelFunc produces the personalized label for an action as a message key
// plus structured args. Rendering and localization are external.
type LabelFunc func(g *Game, p *Player) (string, map[string]any)

// Handler runs an action's effect. Handlers are closures over the owning
// state machine; they report validation failures as errors and emit their
// side effects through it.
type Handler func(p *Player, args string) error

// Action is one catalog entry: identifier, visibility predicates, label
// generator, handler and optional keybind. Registered once per game instance
// at construction and immutable thereafter.
type Action struct {
	ID       string
	LabelKey string
	Keybind  string
	Commands []string // typed command aliases beyond the id itself
	Hidden   Predicate
	Enabled  EnabledPredicate
	Label    LabelFunc
	Handler  Handler
}

// Resolved is the per-player evaluation of one action for display purposes.
type Resolved struct {
	ID       string
	Hidden   bool
	Enabled  bool
	Reason   string // message key when disabled
	LabelKey string
	Args     map[string]any
	Keybind  string
}

// Registry is the immutable, ordered action catalog for a game instance.
// It is read on every input resolution and menu rebuild.
type Registry struct {
	ordered []*Action
	byID    map[string]*Action
	byInput map[string]string // lowercase command or keybind -> action id
}

// NewRegistry builds the catalog. Later registrations never shadow earlier
// ids; duplicate ids panic since the catalog is fixed at construction time.
func NewRegistry(actions ...*Action) *Registry {
	r := &Registry{
		ordered: actions,
		byID:    make(map[string]*Action, len(actions)),
		byInput: make(map[string]string),
	}
	for _, a := range actions {
		if _, dup := r.byID[a.ID]; dup {
			panic("duplicate action id: " + a.ID)
		}
		r.byID[a.ID] = a
		r.bind(a.ID, a.ID)
		if a.Keybind != "" {
			r.bind(a.Keybind, a.ID)
		}
		for _, cmd := range a.Commands {
			r.bind(cmd, a.ID)
		}
	}
	return r
}

func (r *Registry) bind(input, id string) {
	input = strings.ToLower(input)
	if _, taken := r.byInput[input]; taken {
		return
	}
	r.byInput[input] = id
}

// FindAction maps a typed command or keybind to a canonical action id.
// Matching is case-insensitive. Unknown input returns ErrUnknownAction,
// never a silent miss.
func (r *Registry) FindAction(raw string) (string, error) {
	if id, ok := r.byInput[strings.ToLower(raw)]; ok {
		return id, nil
	}
	return "", ErrUnknownAction
}

// Get returns the action with the given id, or nil.
func (r *Registry) Get(id string) *Action {
	return r.byID[id]
}

// ResolveAction evaluates one action's predicates for a single player.
func (r *Registry) ResolveAction(g *Game, p *Player, id string) (Resolved, error) {
	a := r.byID[id]
	if a == nil {
		return Resolved{}, ErrUnknownAction
	}
	return r.resolve(g, p, a), nil
}

func (r *Registry) resolve(g *Game, p *Player, a *Action) Resolved {
	res := Resolved{ID: a.ID, Enabled: true, LabelKey: a.LabelKey, Keybind: a.Keybind}
	if a.Hidden != nil && a.Hidden(g, p) {
		res.Hidden = true
	}
	if a.Enabled != nil {
		ok, reason := a.Enabled(g, p)
		res.Enabled = ok
		res.Reason = reason
	}
	if a.Label != nil {
		key, args := a.Label(g, p)
		res.LabelKey = key
		res.Args = args
	}
	return res
}

// Snapshot returns the ordered per-player catalog used by the external menu
// collaborator. Hidden entries are included with Hidden set so the caller
// decides presentation.
func (r *Registry) Snapshot(g *Game, p *Player) []Resolved {
	out := make([]Resolved, 0, len(r.ordered))
	for _, a := range r.ordered {
		out = append(out, r.resolve(g, p, a))
	}
	return out
}
