package model

// User is a library patron account. Credentials and sessions are handled
// outside this module.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}
