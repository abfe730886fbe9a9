// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// ServiceList displays service listings in a navigable list.
type ServiceList struct {
	services []domain.DoctorService
	selected int
	styles   *styles.Styles
	empty    string
	width    int
	height   int
}

// NewServiceList creates a new service list component.
func NewServiceList(s *styles.Styles) *ServiceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ServiceList{
		styles: s,
		empty:  "No services match these filters",
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *ServiceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ServiceList) Update(msg tea.Msg) (*ServiceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible rows around the selection.
func (l *ServiceList) View() string {
	if len(l.services) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	// Each listing takes two lines.
	visibleCount := (l.height - 1) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(l.services))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderService(i, &l.services[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *ServiceList) renderService(index int, svc *domain.DoctorService) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := svc.Title
	if title == "" {
		title = "(untitled)"
	}
	maxTitleLen := max(l.width-24, 10)
	title = truncate(title, maxTitleLen)

	price := fmt.Sprintf("%8.2f", svc.Price)
	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s %s", indicator, maxTitleLen, title, price))
	} else {
		titleLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s ", indicator, maxTitleLen, title)) +
			l.styles.Price.Render(price)
	}

	detail := fmt.Sprintf("    #%d  %s  %d min", svc.ID, svc.DoctorName, svc.Duration)
	if svc.Description != "" {
		detail += "  " + svc.Description
	}
	detailLine := l.styles.Muted.Render(truncate(detail, max(l.width-2, 20)))

	return titleLine + "\n" + detailLine
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetServices replaces the listings and resets the selection.
func (l *ServiceList) SetServices(services []domain.DoctorService) {
	l.services = services
	l.selected = 0
}

// Services returns the current listings.
func (l *ServiceList) Services() []domain.DoctorService {
	return l.services
}

// SetEmptyText sets the text shown when there are no listings.
func (l *ServiceList) SetEmptyText(text string) {
	l.empty = text
}

// Selected returns the index of the selected listing.
func (l *ServiceList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *ServiceList) SetSelected(index int) {
	if index >= 0 && index < len(l.services) {
		l.selected = index
	}
}

// SelectedService returns the selected listing, or nil if none.
func (l *ServiceList) SelectedService() *domain.DoctorService {
	if l.selected < 0 || l.selected >= len(l.services) {
		return nil
	}
	return &l.services[l.selected]
}

// Remove drops the listing with id, keeping the selection in range.
func (l *ServiceList) Remove(id int) {
	kept := l.services[:0:0]
	for _, s := range l.services {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	l.services = kept
	if l.selected >= len(l.services) {
		l.selected = max(len(l.services)-1, 0)
	}
}

// MoveUp moves selection up.
func (l *ServiceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ServiceList) MoveDown() {
	if l.selected < len(l.services)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ServiceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of listings.
func (l *ServiceList) Count() int {
	return len(l.services)
}

// IsEmpty returns whether the list is empty.
func (l *ServiceList) IsEmpty() bool {
	return len(l.services) == 0
}
