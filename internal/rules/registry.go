package rules

import "fmt"

// The profile registry maps game-type ids to their shared Profile values.
// Registration happens from package init at plugin load; lookups afterwards
// are read-only, so no locking is needed.
var profiles = make(map[string]Profile)

// Register adds a profile under its id. Duplicate registration is a
// programming error.
func Register(p Profile) {
	if _, dup := profiles[p.ID()]; dup {
		panic("rules: duplicate profile id " + p.ID())
	}
	profiles[p.ID()] = p
}

// Lookup returns the profile registered under id.
func Lookup(id string) (Profile, error) {
	p, ok := profiles[id]
	if !ok {
		return nil, fmt.Errorf("rules: unknown profile %q", id)
	}
	return p, nil
}
