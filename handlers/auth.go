package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"userdesk/models"
	"userdesk/store"
	"userdesk/utils"
)

// Signup registers a new account. Open endpoint; same rules as the
// authenticated admin create apart from the response message.
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	a.createUserFrom(w, r, "User created. Please log in.")
}

func (a *API) createUserFrom(w http.ResponseWriter, r *http.Request, successMessage string) {
	form, err := parseUserForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer form.close()

	if form.Name == "" || form.Email == "" || form.Password == "" || form.DOB == "" {
		respondError(w, http.StatusBadRequest, "name, email, password and dob are required")
		return
	}
	if err := utils.ValidateEmail(form.Email); err != nil {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if err := utils.ValidatePassword(form.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dob, err := utils.ParseDOB(form.DOB)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	taken, err := a.Store.EmailTaken(r.Context(), form.Email, 0)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if taken {
		respondError(w, http.StatusBadRequest, "Email already registered")
		return
	}

	passwordHash, err := utils.HashPassword(form.Password)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	image, err := a.storeImage(form)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	user := &models.User{
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: passwordHash,
		DOB:          dob,
		ProfileImage: image,
	}

	// the unique index catches the race two concurrent signups can win
	// against EmailTaken
	if _, err := a.Store.Create(r.Context(), user); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, messageResponse{Message: successMessage})
}

func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if credentials.Email == "" || credentials.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.Store.GetByEmail(r.Context(), credentials.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondStoreError(w, err)
		return
	}

	if !utils.CheckPasswordHash(credentials.Password, user.PasswordHash) {
		log.Println("password verification failed for user:", user.ID)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := a.Tokens.Issue(user.ID, user.Email, utils.SessionTTL)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ForgotPassword issues a short-lived reset token, persists it next to the
// account and mails the reset link. Mail delivery is awaited; its failure
// fails the request.
func (a *API) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := a.Store.GetByEmail(r.Context(), body.Email)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	resetToken, err := a.Tokens.Issue(user.ID, user.Email, utils.ResetTTL)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	expires := time.Now().Add(utils.ResetTTL)
	if err := a.Store.SetResetToken(r.Context(), user.Email, resetToken, expires); err != nil {
		respondStoreError(w, err)
		return
	}

	resetLink := strings.TrimRight(a.FrontendURL, "/") + "/reset-password/" + resetToken
	if err := a.Mail.SendResetEmail(r.Context(), user.Email, resetLink); err != nil {
		log.Println("error sending password reset email to user:", user.ID, "|error:", err)
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "Password reset link sent to your email"})
}

// Profile returns the caller's own sanitized record.
func (a *API) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	user, err := a.Store.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user.Public())
}
