package models

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expense represents a single expense record owned by a user.
// Date is a calendar date in YYYY-MM-DD form; ISO dates sort
// chronologically as plain strings.
type Expense struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"userId"`
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// Summary aggregates a user's expenses over a date range.
type Summary struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}
