package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense-api/internal/auth"
	"expense-api/internal/handlers"
	"expense-api/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	tokens := auth.NewTokenManager([]byte("router-test-secret"), time.Hour)
	h := handlers.NewHandlers(db, tokens)

	// Create router - this panics if the route table conflicts
	mux := setupRouter(h)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "Health check is public",
			method:     "GET",
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Register rejects empty body",
			method:     "POST",
			path:       "/api/auth/register",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Login rejects empty body",
			method:     "POST",
			path:       "/api/auth/login",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "List expenses requires auth",
			method:     "GET",
			path:       "/api/expenses",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Summary requires auth",
			method:     "GET",
			path:       "/api/expenses/summary",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Update requires auth",
			method:     "PUT",
			path:       "/api/expenses/1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Delete requires auth",
			method:     "DELETE",
			path:       "/api/expenses/1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Unknown route",
			method:     "GET",
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
		})
	}
}
