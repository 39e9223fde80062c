package protocol

// GuestProtocol is the single always-open demo protocol. There is no
// per-user entitlement model: callers are either anonymous (guest list)
// or authenticated (full set).
const GuestProtocol = Modbus

// guestAllowed is the hard-coded guest allow-list.
var guestAllowed = []Protocol{GuestProtocol}

// IsGuestAllowed reports whether an anonymous caller may start p.
func IsGuestAllowed(p Protocol) bool {
	for _, g := range guestAllowed {
		if g == p {
			return true
		}
	}
	return false
}

// Allowed returns the protocols a caller may start given their
// authentication state. Pure and total: Allowed(false) is always a
// subset of Allowed(true).
func Allowed(isAuthenticated bool) []Protocol {
	if isAuthenticated {
		return All()
	}
	return GuestAllowed()
}

// GuestAllowed returns a copy of the guest allow-list.
func GuestAllowed() []Protocol {
	out := make([]Protocol, len(guestAllowed))
	copy(out, guestAllowed)
	return out
}
