package domain

// User is the authenticated identity held by the session.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsVerified bool   `json:"isVerified"`
}

// AuthResult is what a successful login or verification yields. Token may be
// empty when the backend grants no session.
type AuthResult struct {
	User  *User
	Token string
}
