package models

import "time"

// User representa um usuario no sistema.
// A senha é guardada apenas como hash (bcrypt) e nunca sai no JSON.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome      string     `gorm:"not null" json:"nome" form:"nome"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Password  string     `gorm:"not null" json:"-"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Nome == "" {
		return "nome"
	} else if user.Email == "" {
		return "email"
	}
	return ""
}
