package domain

// User is an account record. Email is the identity key: the store enforces
// at most one User per email.
type User struct {
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	HashedPassword string         `json:"-"`
	Preferences    map[string]any `json:"preferences"`
}

// Session binds an issued token to its owning user. UserID carries the
// account email (the JWT subject); at most one session exists per distinct
// token value.
type Session struct {
	UserID string `json:"user_id"`
	JWT    string `json:"jwt"`
}
