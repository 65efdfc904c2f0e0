package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"userdesk/models"
	"userdesk/store"
	"userdesk/utils"

	"github.com/stretchr/testify/require"
)

const testJWTSecret = "userdesk_test_jwt_secret_key_1234567890"

// fakeStore is an in-memory stand-in for store.UserStore, honoring the same
// sentinel errors and active-email uniqueness rule.
type fakeStore struct {
	users     map[int64]*models.User
	nextID    int64
	truncated bool
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]*models.User{}}
}

func (f *fakeStore) activeByEmail(email string) *models.User {
	for _, u := range f.users {
		if !u.IsDeleted && strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (f *fakeStore) Create(_ context.Context, u *models.User) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	if f.activeByEmail(u.Email) != nil {
		return 0, store.ErrDuplicateEmail
	}
	f.nextID++
	copied := *u
	copied.ID = f.nextID
	copied.CreatedAt = time.Now()
	f.users[copied.ID] = &copied
	return copied.ID, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u := f.activeByEmail(email); u != nil {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) ListActive(_ context.Context, search, sortKey string, descending bool) ([]models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.User, 0)
	needle := strings.ToLower(search)
	for _, u := range f.users {
		if u.IsDeleted {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch sortKey {
		case "name":
			less = out[i].Name < out[j].Name
		case "email":
			less = out[i].Email < out[j].Email
		default:
			less = out[i].ID < out[j].ID
		}
		if descending {
			return !less
		}
		return less
	})
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, name, email string, dob time.Time, profileImage *string) error {
	if f.failWith != nil {
		return f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if other := f.activeByEmail(email); other != nil && other.ID != id {
		return store.ErrDuplicateEmail
	}
	u.Name = name
	u.Email = email
	u.DOB = dob
	if profileImage != nil {
		u.ProfileImage = profileImage
	}
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, id int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsDeleted = true
	return nil
}

func (f *fakeStore) TruncateAll(context.Context) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.users = map[int64]*models.User{}
	f.truncated = true
	return nil
}

func (f *fakeStore) SetResetToken(_ context.Context, email, token string, expires time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	u := f.activeByEmail(email)
	if u == nil {
		return store.ErrNotFound
	}
	u.ResetToken = &token
	u.ResetExpires = &expires
	return nil
}

func (f *fakeStore) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	u := f.activeByEmail(email)
	return u != nil && u.ID != excludeID, nil
}

type fakeMailer struct {
	to   string
	link string
	err  error
}

func (f *fakeMailer) SendResetEmail(_ context.Context, to, resetLink string) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.link = resetLink
	return nil
}

type fakeImages struct {
	path string
	err  error
}

func (f *fakeImages) Save(multipart.File, *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func newTestAPI(t *testing.T) (*API, *fakeStore, *fakeMailer) {
	t.Helper()

	tokens, err := utils.NewTokens(testJWTSecret)
	require.NoError(t, err)

	fs := newFakeStore()
	fm := &fakeMailer{}
	api := &API{
		Store:       fs,
		Tokens:      tokens,
		Mail:        fm,
		Images:      &fakeImages{path: "/uploads/profile-test.png"},
		FrontendURL: "http://localhost:3000",
	}
	return api, fs, fm
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), out))
}

func seedUser(t *testing.T, fs *fakeStore, name, email, password string) int64 {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	dob, err := time.Parse("2006-01-02", "1990-06-15")
	require.NoError(t, err)

	id, err := fs.Create(context.Background(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		DOB:          dob,
	})
	require.NoError(t, err)
	return id
}
