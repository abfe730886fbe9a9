package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

var (
	_ json.Unmarshaler = (*flexInt)(nil)
	_ json.Unmarshaler = (*flexFloat)(nil)
)

// flexInt decodes an integer sent either as a JSON number or as a string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("decode integer %q: %w", data, err)
	}
	*n = flexInt(v)
	return nil
}

// flexFloat decodes a number sent either as a JSON number or as a string,
// as numeric database columns often are.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("decode number %q: %w", data, err)
	}
	*f = flexFloat(v)
	return nil
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type pageData struct {
	Count     int          `json:"count"`
	Documents []serviceDTO `json:"documents"`
}

type templatePage struct {
	Count     int           `json:"count"`
	Documents []templateDTO `json:"documents"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type serviceDTO struct {
	ID          int       `json:"id"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Title       string    `json:"title"`
	Price       flexFloat `json:"price"`
	Duration    flexInt   `json:"duration"`
	Description string    `json:"description"`
	ServiceID   int       `json:"service_id"`
}

func (d serviceDTO) toDomain() domain.DoctorService {
	return domain.DoctorService{
		ID:          d.ID,
		DoctorName:  d.DoctorName,
		Title:       d.Title,
		Price:       float64(d.Price),
		Duration:    int(d.Duration),
		Description: d.Description,
		TemplateID:  d.ServiceID,
	}
}

func servicesToDomain(dtos []serviceDTO) []domain.DoctorService {
	out := make([]domain.DoctorService, len(dtos))
	for i, d := range dtos {
		out[i] = d.toDomain()
	}
	return out
}

type templateDTO struct {
	TemplateID         int       `json:"template_id"`
	Name               string    `json:"name"`
	DefaultDuration    flexInt   `json:"default_duration"`
	DefaultPrice       flexFloat `json:"default_price"`
	DefaultDescription string    `json:"default_description"`
}

func (d templateDTO) toDomain() domain.ServiceTemplate {
	return domain.ServiceTemplate{
		TemplateID:         d.TemplateID,
		Name:               d.Name,
		DefaultDuration:    int(d.DefaultDuration),
		DefaultPrice:       float64(d.DefaultPrice),
		DefaultDescription: d.DefaultDescription,
	}
}

type templateNameDTO struct {
	TemplateID int    `json:"template_id"`
	Name       string `json:"name"`
}

// serviceFormBody is the body of POST /services/form[/:id].
type serviceFormBody struct {
	ServiceID         int      `json:"service_id"`
	CustomPrice       *float64 `json:"custom_price"`
	CustomDuration    *int     `json:"custom_duration"`
	CustomDescription *string  `json:"custom_description"`
}

func newServiceFormBody(f domain.ServiceForm) serviceFormBody {
	body := serviceFormBody{
		ServiceID:      f.TemplateID,
		CustomPrice:    f.CustomPrice,
		CustomDuration: f.CustomDuration,
	}
	if f.CustomDescription != "" {
		desc := f.CustomDescription
		body.CustomDescription = &desc
	}
	return body
}

type userDTO struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	RoleID flexInt `json:"role_id"`
}

func (d userDTO) toDomain() domain.User {
	return domain.User{ID: d.ID, Name: d.Name, Email: d.Email, Role: domain.Role(d.RoleID)}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   int    `json:"role_id"`
}

type authResponse struct {
	Result string  `json:"result"`
	User   userDTO `json:"user"`
	Token  struct {
		ExpiresInMs int64  `json:"expiresInMs"`
		Token       string `json:"token"`
	} `json:"token"`
}

func (r authResponse) toSession(now time.Time) *domain.Session {
	s := &domain.Session{Token: r.Token.Token, User: r.User.toDomain()}
	if r.Token.ExpiresInMs > 0 {
		s.ExpiresAt = now.Add(time.Duration(r.Token.ExpiresInMs) * time.Millisecond)
	}
	return s
}

type profileDTO struct {
	ID          int     `json:"id"`
	RoleID      flexInt `json:"role_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
}

func (d profileDTO) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:          d.ID,
		Role:        domain.Role(d.RoleID),
		Name:        d.Name,
		Email:       d.Email,
		PhoneNumber: deref(d.PhoneNumber),
		Avatar:      deref(d.Avatar),
		Bio:         deref(d.Bio),
	}
}

type profileResponse struct {
	User profileDTO `json:"user"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
