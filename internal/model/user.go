package model

import (
	"time"
)

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email}
}
