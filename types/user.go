package types

// Actor is the authenticated identity attached to a request by the auth
// middleware. A nil *Actor means an anonymous caller.
type Actor struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.UserID != 0
}
