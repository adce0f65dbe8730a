// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered learner account.
//
// Accounts are first-party: the username and a bcrypt hash of the password
// live in our own directory instead of behind an external identity provider.
//
// WHY PasswordHash `json:"-"`?
// The dash tag tells encoding/json to never serialize the field. Handlers
// return model.User directly in responses, so without it one careless
// endpoint would leak every stored hash. Defense happens at the type level,
// not by every handler remembering to strip it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
