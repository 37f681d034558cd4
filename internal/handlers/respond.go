package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON error: %v", err)
	}
}

// writeError sends the standard {"message": ...} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// serverError logs the underlying cause and sends a generic 500 body.
func serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s error: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Server error")
}
