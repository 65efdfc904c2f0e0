package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"userdesk/models"
	"userdesk/utils"
)

// UserStore is the slice of the relational store the API composes.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListActive(ctx context.Context, search, sortKey string, descending bool) ([]models.User, error)
	Update(ctx context.Context, id int64, name, email string, dob time.Time, profileImage *string) error
	SoftDelete(ctx context.Context, id int64) error
	TruncateAll(ctx context.Context) error
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

type Mailer interface {
	SendResetEmail(ctx context.Context, to, resetLink string) error
}

type ImageStore interface {
	Save(file multipart.File, header *multipart.FileHeader) (string, error)
}

// API holds the injected resource handles; nothing here is package-level state.
type API struct {
	Store       UserStore
	Tokens      *utils.Tokens
	Mail        Mailer
	Images      ImageStore
	Limiter     *utils.Limiter
	FrontendURL string
}

func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/signup", a.limited(a.Signup))
	mux.HandleFunc("POST /api/login", a.limited(a.Login))
	mux.HandleFunc("POST /api/forgot-password", a.limited(a.ForgotPassword))

	mux.HandleFunc("GET /api/profile", a.requireAuth(a.Profile))
	mux.HandleFunc("POST /api/users", a.requireAuth(a.CreateUser))
	mux.HandleFunc("GET /api/users", a.requireAuth(a.ListUsers))
	mux.HandleFunc("PUT /api/users/{id}", a.requireAuth(a.UpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", a.requireAuth(a.DeleteUser))
	mux.HandleFunc("DELETE /api/users", a.requireAuth(a.TruncateUsers))

	return mux
}
