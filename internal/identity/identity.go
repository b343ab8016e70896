// Package identity holds the signed-in user passed through from the
// browser session. The server trusts the front end's session payload;
// verification happens upstream.
package identity

// User describes the signed-in account. A zero value means anonymous
// local use.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// SignedIn reports whether the user carries an account ID.
func (u User) SignedIn() bool {
	return u.ID != ""
}
