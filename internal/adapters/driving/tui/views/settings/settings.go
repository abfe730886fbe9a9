// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEdit
)

// Item identifies a row of the overview.
type Item int

const (
	ItemBaseURL Item = iota
	ItemPageSize
	ItemRadius
	ItemDebounce
	ItemFirstButton
	ItemLastButton
	ItemDefaults
	itemCount
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

var errNoService = errors.New("settings service not available")

// View is the settings view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	section  Section
	selected int
	field    *input.Field

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		field:           input.NewField(s, "Value", ""),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: errNoService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved"
		v.leaveEdit()
		if msg.Settings == nil {
			return v, v.loadSettings()
		}
		v.settings = msg.Settings
		saved := *msg.Settings
		return v, func() tea.Msg { return messages.SettingsReloaded{Settings: saved} }

	case messages.SettingsReloaded:
		reloaded := msg.Settings
		v.settings = &reloaded
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEsc {
		switch v.section {
		case SectionOverview:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case SectionEdit:
			v.err = nil
			v.leaveEdit()
			return v, nil
		}
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEdit:
		return v.handleEditKeys(msg)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < int(itemCount)-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil {
			return v, nil
		}
		v.notice = ""
		switch item := Item(v.selected); item {
		case ItemFirstButton, ItemLastButton:
			next := *v.settings
			if item == ItemFirstButton {
				next.Catalog.ShowFirstButton = !next.Catalog.ShowFirstButton
			} else {
				next.Catalog.ShowLastButton = !next.Catalog.ShowLastButton
			}
			return v, v.save(func(svc driving.SettingsService) error { return svc.Save(&next) })
		case ItemDefaults:
			return v, v.save(func(svc driving.SettingsService) error {
				defaults := svc.GetDefaults()
				return svc.Save(&defaults)
			})
		default:
			v.section = SectionEdit
			v.err = nil
			v.field.SetValue(v.valueOf(item))
			return v, v.field.Focus()
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() != keyEnter {
		var cmd tea.Cmd
		v.field, cmd = v.field.Update(msg)
		return v, cmd
	}

	apply, err := parseEdit(Item(v.selected), strings.TrimSpace(v.field.Value()))
	if err != nil {
		v.err = err
		return v, nil
	}
	return v, v.save(apply)
}

// parseEdit turns typed text into the service call for the edited item.
func parseEdit(item Item, raw string) (func(driving.SettingsService) error, error) {
	switch item {
	case ItemBaseURL:
		return func(svc driving.SettingsService) error { return svc.SetAPIBaseURL(raw) }, nil
	case ItemPageSize, ItemRadius:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a whole number", domain.ErrInvalidInput, raw)
		}
		if item == ItemPageSize {
			return func(svc driving.SettingsService) error { return svc.SetPageSize(n) }, nil
		}
		return func(svc driving.SettingsService) error { return svc.SetRadius(n) }, nil
	case ItemDebounce:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a duration such as 300ms", domain.ErrInvalidInput, raw)
		}
		return func(svc driving.SettingsService) error { return svc.SetDebounce(d) }, nil
	default:
		return nil, fmt.Errorf("%w: item %d is not editable", domain.ErrInvalidInput, item)
	}
}

// save runs apply against the service and reports the stored settings.
func (v *View) save(apply func(driving.SettingsService) error) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoService}
		}
		if err := apply(svc); err != nil {
			return messages.SettingsSaved{Err: err}
		}
		settings, err := svc.Get()
		return messages.SettingsSaved{Settings: settings, Err: err}
	}
}

func (v *View) leaveEdit() {
	v.section = SectionOverview
	v.field.Blur()
	v.field.Reset()
}

func (v *View) valueOf(item Item) string {
	c := v.settings.Catalog
	switch item {
	case ItemBaseURL:
		return v.settings.API.BaseURL
	case ItemPageSize:
		return strconv.Itoa(c.PageSize)
	case ItemRadius:
		return strconv.Itoa(c.Radius)
	case ItemDebounce:
		return c.Debounce.String()
	case ItemFirstButton:
		return onOff(c.ShowFirstButton)
	case ItemLastButton:
		return onOff(c.ShowLastButton)
	default:
		return ""
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func label(item Item) string {
	switch item {
	case ItemBaseURL:
		return "Backend URL"
	case ItemPageSize:
		return "Listings per page"
	case ItemRadius:
		return "Page buttons each side"
	case ItemDebounce:
		return "Filter delay"
	case ItemFirstButton:
		return "First page button"
	case ItemLastButton:
		return "Last page button"
	case ItemDefaults:
		return "Restore defaults"
	default:
		return ""
	}
}

func hint(item Item) string {
	switch item {
	case ItemBaseURL:
		return "Absolute http(s) address of the backend"
	case ItemPageSize:
		return fmt.Sprintf("1 to %d", domain.MaxPageSize)
	case ItemRadius:
		return fmt.Sprintf("0 to %d", domain.MaxButtonRadius)
	case ItemDebounce:
		return "A duration such as 300ms or 1s"
	default:
		return ""
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEdit:
		b.WriteString(v.renderEdit())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	for i := Item(0); i < itemCount; i++ {
		indicator := "  "
		if int(i) == v.selected {
			indicator = "> "
		}

		line := indicator + label(i)
		if value := v.valueOf(i); value != "" {
			line += ": " + value
		}

		if int(i) == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderEdit() string {
	var b strings.Builder

	item := Item(v.selected)
	b.WriteString(v.styles.Subtitle.Render(label(item)))
	b.WriteString("\n\n")
	b.WriteString(v.field.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(hint(item)))
	b.WriteString("\n")

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionEdit:
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.field.SetWidth(min(max(width-10, 20), 60))
}

// Reset resets the view to its initial state.
func (v *View) Reset() {
	v.selected = 0
	v.err = nil
	v.notice = ""
	v.leaveEdit()
}
