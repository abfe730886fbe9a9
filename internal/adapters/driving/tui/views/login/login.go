// Package login provides the sign-in form for the TUI.
package login

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// View is the sign-in form.
type View struct {
	styles   *styles.Styles
	auth     driving.AuthService
	ctx      context.Context
	email    *input.Field
	password *input.Field

	submitting bool
	err        error
	width      int
	height     int
}

// NewView creates a sign-in form.
func NewView(s *styles.Styles, auth driving.AuthService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		auth:     auth,
		ctx:      context.Background(),
		email:    input.NewField(s, "Email", "you@example.com"),
		password: input.NewPasswordField(s, "Password"),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context for the login request.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the email field.
func (v *View) Init() tea.Cmd {
	v.password.Blur()
	return v.email.Focus()
}

// Reset clears the form.
func (v *View) Reset() {
	v.email.Reset()
	v.password.Reset()
	v.submitting = false
	v.err = nil
}

// Update handles messages for the sign-in form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.LoggedIn:
		v.submitting = false
		v.err = msg.Err
		if msg.Err != nil {
			v.password.Reset()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.submitting {
		return v, nil
	}

	//nolint:exhaustive // only form control keys are handled here
	switch msg.Type {
	case tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		return v, v.toggleFocus()
	case tea.KeyEnter:
		if v.email.Focused() {
			return v, v.toggleFocus()
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	if v.email.Focused() {
		_, cmd = v.email.Update(msg)
	} else {
		_, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *View) toggleFocus() tea.Cmd {
	if v.email.Focused() {
		v.email.Blur()
		return v.password.Focus()
	}
	v.password.Blur()
	return v.email.Focus()
}

func (v *View) submit() tea.Cmd {
	if v.auth == nil {
		return nil
	}
	v.submitting = true
	v.err = nil

	auth, ctx := v.auth, v.ctx
	form := domain.LoginForm{
		Email:    strings.TrimSpace(v.email.Value()),
		Password: v.password.Value(),
	}
	return func() tea.Msg {
		user, err := auth.Login(ctx, form)
		return messages.LoggedIn{User: user, Err: err}
	}
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(v.email.View())
	b.WriteString("\n")
	b.WriteString(v.password.View())
	b.WriteString("\n\n")

	switch {
	case v.submitting:
		b.WriteString(v.styles.Muted.Render("Signing in..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(describe(v.err)))
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[tab] Switch field  [enter] Sign in  [esc] Back"))
	return b.String()
}

// describe lists each failed field, or the error itself.
func describe(err error) string {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return err.Error()
	}
	lines := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		lines = append(lines, f.Field+": "+f.Message)
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.email.SetWidth(min(width, 60))
	v.password.SetWidth(min(width, 60))
}

// Submitting reports whether a login request is in flight.
func (v *View) Submitting() bool {
	return v.submitting
}

// Err returns the last login error.
func (v *View) Err() error {
	return v.err
}
