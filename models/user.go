package models

import "time"

type User struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	DOB          time.Time  `db:"dob"`
	ProfileImage *string    `db:"profile_image"`
	IsDeleted    bool       `db:"is_deleted"`
	ResetToken   *string    `db:"reset_password_token"`
	ResetExpires *time.Time `db:"reset_password_expires"`
	CreatedAt    time.Time  `db:"created_at"`
}

// PublicUser is the sanitized view returned by the API. The password hash and
// reset fields never leave the store through it.
type PublicUser struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	DOB          string  `json:"dob"`
	ProfileImage *string `json:"profile_image"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		DOB:          u.DOB.Format("2006-01-02"),
		ProfileImage: u.ProfileImage,
	}
}
