package handlers

import (
	"net/http"
	"strconv"

	"userdesk/models"
	"userdesk/store"
	"userdesk/utils"
)

// CreateUser is the admin-style create behind auth; uniqueness and hashing
// rules are identical to signup.
func (a *API) CreateUser(w http.ResponseWriter, r *http.Request) {
	a.createUserFrom(w, r, "User created successfully")
}

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sortBy := query.Get("sortBy")
	if sortBy != "" && !store.SortKeyAllowed(sortBy) {
		respondError(w, http.StatusBadRequest, "unsupported sort key: "+sortBy)
		return
	}
	descending, err := utils.ParseSortOrder(query.Get("order"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	users, err := a.Store.ListActive(r.Context(), query.Get("search"), sortBy, descending)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}

	respondJSON(w, http.StatusOK, out)
}

func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	form, err := parseUserForm(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer form.close()

	if form.Name == "" || form.Email == "" || form.DOB == "" {
		respondError(w, http.StatusBadRequest, "name, email and dob are required")
		return
	}
	if err := utils.ValidateEmail(form.Email); err != nil {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	dob, err := utils.ParseDOB(form.DOB)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// updating to the account's own current address is idempotent
	taken, err := a.Store.EmailTaken(r.Context(), form.Email, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if taken {
		respondError(w, http.StatusBadRequest, "Email already registered to another user")
		return
	}

	image, err := a.storeImage(form)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if err := a.Store.Update(r.Context(), id, form.Name, form.Email, dob, image); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "User updated successfully"})
}

func (a *API) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := a.Store.SoftDelete(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// TruncateUsers irreversibly empties the table.
func (a *API) TruncateUsers(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.TruncateAll(r.Context()); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "All users deleted successfully"})
}
