package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driven"
)

// Ensure Client implements the account ports.
var (
	_ driven.AuthAPI = (*Client)(nil)
	_ driven.UserAPI = (*Client)(nil)
)

// Login exchanges credentials for a session: POST /auth/login.
func (c *Client) Login(ctx context.Context, form domain.LoginForm) (*domain.Session, error) {
	var resp authResponse
	body := loginBody{Email: form.Email, Password: form.Password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthInvalid, Message(err))
		}
		return nil, err
	}
	return c.session(resp)
}

// Signup registers an account and returns its session: POST /auth/signup.
func (c *Client) Signup(ctx context.Context, form domain.SignupForm) (*domain.Session, error) {
	var resp authResponse
	body := signupBody{Name: form.Name, Email: form.Email, Password: form.Password, RoleID: int(form.Role)}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", body, &resp); err != nil {
		return nil, err
	}
	return c.session(resp)
}

func (c *Client) session(resp authResponse) (*domain.Session, error) {
	if resp.Token.Token == "" {
		return nil, fmt.Errorf("%w: response carried no token", domain.ErrAuthInvalid)
	}
	return resp.toSession(time.Now()), nil
}

// Me fetches the signed-in user's profile: GET /users/me.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var resp profileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User.toDomain(), nil
}

// UpdateProfile uploads profile changes as multipart form data:
// POST /users/update. The avatar file is attached when AvatarPath is set.
func (c *Client) UpdateProfile(ctx context.Context, form domain.ProfileForm) error {
	body, contentType, err := profileMultipart(form)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/users/update", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, &messageResponse{})
}

// DeleteAccount removes the signed-in user's account: DELETE /users.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/users", nil, nil)
}

func profileMultipart(form domain.ProfileForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"name", form.Name},
		{"email", form.Email},
		{"phone_number", form.PhoneNumber},
		{"bio", form.Bio},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	if form.AvatarPath != "" {
		if err := attachFile(w, "avatar", form.AvatarPath); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}
	return nil
}
