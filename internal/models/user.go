package models

import "time"

// User is a plugin-platform account mirrored locally. The UtoolID is the
// opaque identifier issued by the uTools host; it is the only external key.
type User struct {
	ID               int64      `json:"id"`
	UtoolID          string     `json:"utool_id"`
	TokenBalance     float64    `json:"token_balance"`
	RegistrationTime time.Time  `json:"registration_time"`
	UpdateTime       time.Time  `json:"update_time"`
	DeleteTime       *time.Time `json:"delete_time,omitempty"`
}

func (u *User) IsDeleted() bool {
	return u.DeleteTime != nil
}
