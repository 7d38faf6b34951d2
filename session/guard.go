package session

// Decision is the route guard's verdict for a protected view.
type Decision int

const (
	// ShowLoading renders a loading indicator; no other field is consulted.
	ShowLoading Decision = iota
	// RedirectLogin sends the user to the login view.
	RedirectLogin
	// Render lets the requested view render.
	Render
)

// Evaluate is the route guard: a stateless projection of the session state,
// re-evaluated on every navigation to a protected view. Loading wins over
// everything; an unauthenticated user or an empty selection both redirect to
// the login view (which drives file selection itself).
func Evaluate(s Snapshot) Decision {
	switch {
	case s.Loading:
		return ShowLoading
	case !s.IsAuthenticated():
		return RedirectLogin
	case !s.HasSelectedFiles():
		return RedirectLogin
	default:
		return Render
	}
}
