package core

// Principal is the authenticated caller. It is threaded explicitly through
// every user-scoped operation rather than read from ambient request state.
type Principal struct {
	ID    int64
	Name  string
	Email string
}
