package utils

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Invalid User ID or Password.")

// Credentials is the single configured admin account. When PasswordHash is
// set it is a bcrypt hash and Password is ignored.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

func (cr Credentials) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cr.Username)) == 1

	var passOK bool
	if cr.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(cr.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(cr.Password)) == 1
	}

	if !userOK || !passOK || cr.Username == "" {
		return ErrInvalidCredentials
	}
	return nil
}
