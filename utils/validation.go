package utils

import (
	"fmt"
	netmail "net/mail"
	"strings"
	"time"
)

const dobLayout = "2006-01-02"

func ValidateEmail(email string) error {
	_, err := netmail.ParseAddress(email)

	return err
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	return nil
}

func ParseDOB(dob string) (time.Time, error) {
	t, err := time.Parse(dobLayout, dob)
	if err != nil {
		return time.Time{}, fmt.Errorf("dob must be in YYYY-MM-DD format")
	}
	return t, nil
}

// ParseSortOrder maps the order query parameter onto a descending flag.
// Absent means ascending.
func ParseSortOrder(order string) (bool, error) {
	switch strings.ToUpper(order) {
	case "", "ASC":
		return false, nil
	case "DESC":
		return true, nil
	}
	return false, fmt.Errorf("order must be ASC or DESC")
}
