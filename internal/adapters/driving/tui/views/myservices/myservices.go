// Package myservices lists the signed-in doctor's own listings.
package myservices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// View lists a doctor's listings and deletes them on confirmation.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	list    *list.ServiceList
	catalog driving.CatalogService
	auth    driving.AuthService
	ctx     context.Context

	loading bool
	// confirm is the listing awaiting delete confirmation.
	confirm *domain.DoctorService
	notice  string
	err     error
	width   int
	height  int
}

// NewView creates the view.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.CatalogService, auth driving.AuthService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	l := list.NewServiceList(s)
	l.SetEmptyText("You have no listings yet. Add one with 'medmart services save'.")

	return &View{
		styles:  s,
		keymap:  km,
		list:    l,
		catalog: catalog,
		auth:    auth,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the listings.
func (v *View) Init() tea.Cmd {
	v.confirm = nil
	v.notice = ""
	v.err = nil
	if v.catalog == nil || v.auth == nil {
		return nil
	}
	v.loading = true

	catalog, auth, ctx := v.catalog, v.auth, v.ctx
	return func() tea.Msg {
		if err := services.RequireDoctor(ctx, auth); err != nil {
			return messages.MyServicesLoaded{Err: err}
		}
		user, err := auth.CurrentUser(ctx)
		if err != nil {
			return messages.MyServicesLoaded{Err: err}
		}
		mine, err := catalog.LoadByDoctor(ctx, user.ID)
		return messages.MyServicesLoaded{Services: mine, Err: err}
	}
}

// Update handles messages for the view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.MyServicesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetServices(msg.Services)
		}
		return v, nil

	case messages.ServiceDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.list.Remove(msg.ID)
		v.notice = fmt.Sprintf("Deleted listing #%d", msg.ID)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.confirm != nil {
		target := v.confirm
		v.confirm = nil
		if key == "y" {
			return v, v.delete(target.ID)
		}
		return v, nil
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Delete):
		v.confirm = v.list.SelectedService()
		v.notice = ""
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) delete(id int) tea.Cmd {
	catalog, ctx := v.catalog, v.ctx
	return func() tea.Msg {
		return messages.ServiceDeleted{ID: id, Err: catalog.DeleteItem(ctx, id)}
	}
}

// View renders the listings.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("My services"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(describe(v.err)))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	switch {
	case v.confirm != nil:
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Delete %q (#%d)? [y] yes  [any key] cancel", v.confirm.Title, v.confirm.ID)))
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
	default:
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [d] Delete  [esc] Back"))
	}
	return b.String()
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthExpired):
		return "Sign in to manage your listings."
	case errors.Is(err, domain.ErrForbidden):
		return "Only doctors can manage listings."
	default:
		return err.Error()
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, max(height-6, 2))
}

// Services returns the listings on screen.
func (v *View) Services() []domain.DoctorService {
	return v.list.Services()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
