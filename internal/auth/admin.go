package auth

import "crypto/subtle"

// AdminCredentials holds the single configured administrator login.
type AdminCredentials struct {
	Username string
	Password string
}

// Verify compares in constant time. Empty configured credentials never match.
func (a AdminCredentials) Verify(username, password string) bool {
	if a.Username == "" || a.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	return userOK && passOK
}
