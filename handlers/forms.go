package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
)

const maxUploadBytes = 10 << 20

// userForm carries the fields shared by signup, admin-create and update.
// Uploads arrive as multipart form data; clients without an image may also
// send plain JSON.
type userForm struct {
	Name     string
	Email    string
	Password string
	DOB      string

	file   multipart.File
	header *multipart.FileHeader
}

func (f *userForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

func parseUserForm(r *http.Request) (*userForm, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}

		form := &userForm{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			DOB:      r.FormValue("dob"),
		}

		file, header, err := r.FormFile("profileImage")
		switch err {
		case nil:
			form.file = file
			form.header = header
		case http.ErrMissingFile:
			// image is optional
		default:
			return nil, fmt.Errorf("reading profileImage: %w", err)
		}

		return form, nil
	}

	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		DOB      string `json:"dob"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid request body")
	}

	return &userForm{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		DOB:      body.DOB,
	}, nil
}

// storeImage persists the uploaded image if one arrived and returns its
// public path, or nil when the form carried no file.
func (a *API) storeImage(form *userForm) (*string, error) {
	if form.file == nil {
		return nil, nil
	}
	path, err := a.Images.Save(form.file, form.header)
	if err != nil {
		return nil, err
	}
	return &path, nil
}
