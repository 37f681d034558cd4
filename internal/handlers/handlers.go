package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expense-api/internal/auth"
	"expense-api/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

// userIDContextKey is the context key for the authenticated user's id.
const userIDContextKey contextKey = "userID"

// dateLayout is the calendar-date form expenses are stored and served in.
const dateLayout = "2006-01-02"

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db     *storage.DB
	tokens *auth.TokenManager
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, tokens *auth.TokenManager) *Handlers {
	return &Handlers{db: db, tokens: tokens}
}

// UserIDFromContext retrieves the authenticated user id from request context.
func UserIDFromContext(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(userIDContextKey).(int64)
	return id, ok
}

// AuthMiddleware wraps handlers to require a valid bearer token. On success
// the embedded user id is attached to the request context.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		userID, err := h.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token - please log in again")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Register creates a new user account.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(w, "Register", err)
		return
	}

	user, err := h.db.CreateUser(email, hash)
	if errors.Is(err, storage.ErrEmailTaken) {
		writeError(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		serverError(w, "Register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    userResponse{ID: user.ID, Email: user.Email},
	})
}

// Login verifies credentials and issues a signed token. The failure message
// is identical for unknown email and wrong password.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.db.GetUserByEmail(email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		serverError(w, "Login", err)
		return
	}
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(w, "Login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type expenseRequest struct {
	Title string `json:"title"`
	// json.Number accepts both JSON numbers and numeric strings.
	Amount json.Number `json:"amount"`
	Date   string      `json:"date"`
}

func (req *expenseRequest) validate() (title string, amount float64, date string, errMsg string) {
	title = strings.TrimSpace(req.Title)
	date = strings.TrimSpace(req.Date)
	if title == "" || req.Amount == "" || date == "" {
		return "", 0, "", "Title, amount, and date are required"
	}
	amount, err := req.Amount.Float64()
	if err != nil {
		return "", 0, "", "Amount must be a number"
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", 0, "", "Date must be in YYYY-MM-DD format"
	}
	return title, amount, date, ""
}

// ListExpenses returns all expenses owned by the caller, newest first.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r)

	expenses, err := h.db.ListExpenses(userID)
	if err != nil {
		serverError(w, "ListExpenses", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// CreateExpense creates a new expense owned by the caller.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r)

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	title, amount, date, errMsg := req.validate()
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	expense, err := h.db.CreateExpense(userID, title, amount, date)
	if err != nil {
		serverError(w, "CreateExpense", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"expense": expense})
}

// UpdateExpense overwrites an expense owned by the caller. A row owned by a
// different user is reported as not found.
func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	title, amount, date, errMsg := req.validate()
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	expense, err := h.db.UpdateExpense(userID, id, title, amount, date)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		serverError(w, "UpdateExpense", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
}

// DeleteExpense removes an expense owned by the caller.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}

	err = h.db.DeleteExpense(userID, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}
	if err != nil {
		serverError(w, "DeleteExpense", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}
