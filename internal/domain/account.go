package domain

import "time"

// Account owns agents and authenticates API calls with its token.
type Account struct {
	ID        string
	Name      string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}
