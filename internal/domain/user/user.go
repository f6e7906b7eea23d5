package user

import (
	"strings"
	"time"
)

type User struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	FirstName   string    `gorm:"column:first_name" json:"first_name"`
	LastName    string    `gorm:"column:last_name" json:"last_name"`
	FullName    string    `gorm:"column:full_name" json:"full_name"`
	Email       string    `gorm:"column:email;index" json:"email"`
	MerakiEmail string    `gorm:"column:meraki_email;index" json:"meraki_email"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }

// DisplayName prefers full_name and falls back to first and last name.
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// NeedsPersonalEmail is true until the student registers an email other than
// their school-issued one.
func (u User) NeedsPersonalEmail() bool {
	e := strings.TrimSpace(u.Email)
	return e == "" || strings.EqualFold(e, strings.TrimSpace(u.MerakiEmail))
}
