package storage

import (
	"database/sql"
	"errors"
	"strings"

	"expense-api/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a row does not exist or is owned by
	// another user. Callers cannot tell the two cases apart.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

// NewDBWithConn wraps an existing connection without running migrations.
func NewDBWithConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			amount REAL NOT NULL,
			date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateUser creates a new user with the given email and password hash.
func (db *DB) CreateUser(email, passwordHash string) (*models.User, error) {
	result, err := db.conn.Exec(
		"INSERT INTO users (email, password_hash) VALUES (?, ?)",
		email, passwordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetUserByID(id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?",
		email,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateExpense inserts a new expense for the given user and returns the row.
func (db *DB) CreateExpense(userID int64, title string, amount float64, date string) (*models.Expense, error) {
	result, err := db.conn.Exec(
		"INSERT INTO expenses (user_id, title, amount, date) VALUES (?, ?, ?, ?)",
		userID, title, amount, date,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetExpense(userID, id)
}

// GetExpense retrieves a single expense owned by userID.
func (db *DB) GetExpense(userID, id int64) (*models.Expense, error) {
	row := db.conn.QueryRow(
		"SELECT id, user_id, title, amount, date FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)

	var e models.Expense
	if err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListExpenses retrieves all expenses owned by userID, newest first with a
// stable id tie-break.
func (db *DB) ListExpenses(userID int64) ([]models.Expense, error) {
	rows, err := db.conn.Query(
		"SELECT id, user_id, title, amount, date FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Date); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// UpdateExpense overwrites title, amount and date of an expense owned by
// userID and returns the updated row.
func (db *DB) UpdateExpense(userID, id int64, title string, amount float64, date string) (*models.Expense, error) {
	result, err := db.conn.Exec(
		"UPDATE expenses SET title = ?, amount = ?, date = ? WHERE id = ? AND user_id = ?",
		title, amount, date, id, userID,
	)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return db.GetExpense(userID, id)
}

// DeleteExpense removes an expense owned by userID.
func (db *DB) DeleteExpense(userID, id int64) error {
	result, err := db.conn.Exec(
		"DELETE FROM expenses WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SummarizeExpenses totals a user's expenses over an inclusive date range.
// An empty from/to leaves that side of the range open.
func (db *DB) SummarizeExpenses(userID int64, from, to string) (*models.Summary, error) {
	query := "SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses WHERE user_id = ?"
	args := []any{userID}
	if from != "" {
		query += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		query += " AND date <= ?"
		args = append(args, to)
	}

	var s models.Summary
	if err := db.conn.QueryRow(query, args...).Scan(&s.Total, &s.Count); err != nil {
		return nil, err
	}
	return &s, nil
}
