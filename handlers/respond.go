package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"userdesk/store"
	"userdesk/utils"
)

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("error encoding response:", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, messageResponse{Message: message})
}

// respondStoreError translates store and upload failures: duplicate email and
// bad uploads map to 400, unknown records to 404, everything else surfaces as
// 500 with the raw message.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		respondError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, utils.ErrNotAnImage):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
