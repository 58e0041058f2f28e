package model

import (
	"time"
)

// User is the owner of goals. Accounts are provisioned on the first
// authenticated request; credentials live with the identity provider.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Timezone  string    `db:"timezone"`
	CreatedAt time.Time `db:"created_at"`
}

// Location resolves the user's timezone, falling back to the server's.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
