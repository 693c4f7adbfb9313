package domain

// Identity is a verified user principal.
type Identity struct {
	ID       string
	Username string
	IsAdmin  bool
}

// Anonymous reports whether the identity carries no verified id.
// Anonymous connections may still send and receive, but they hold no
// presence entry and messages from them carry only a display name.
func (i Identity) Anonymous() bool {
	return i.ID == ""
}
