package nav

// Decision is the outcome of the authentication gate in front of every
// dashboard view.
type Decision int

const (
	// Deny: render a login prompt, fetch nothing.
	Deny Decision = iota

	// Admit: views may render and data may be fetched.
	Admit
)

func (d Decision) String() string {
	if d == Admit {
		return "admit"
	}
	return "deny"
}

// Guard gates rendering on a resolved identity.
//
// It is a pure predicate over the resolver's output: no identity, or an
// identity outside the non-negative contract, denies.
func Guard(actorID int64, ok bool) Decision {
	if !ok || actorID < 0 {
		return Deny
	}
	return Admit
}
