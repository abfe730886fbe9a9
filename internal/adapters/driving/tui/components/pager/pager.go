// Package pager renders numbered page buttons for the TUI.
package pager

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// Pager shows a button window with previous/next arrows.
type Pager struct {
	styles *styles.Styles
	window domain.ButtonWindow
	typed  string
}

// New creates a pager with no pages.
func New(s *styles.Styles) *Pager {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Pager{
		styles: s,
		window: domain.ButtonWindow{Indices: []int{}, Hidden: true},
	}
}

// SetWindow replaces the rendered buttons and drops a partly typed page.
func (p *Pager) SetWindow(w domain.ButtonWindow) {
	p.window = w
	p.typed = ""
}

// Window returns the rendered buttons.
func (p *Pager) Window() domain.ButtonWindow {
	return p.window
}

// View renders the buttons, or nothing when there is at most one page.
func (p *Pager) View() string {
	w := p.window
	if w.Hidden || len(w.Indices) == 0 {
		return ""
	}

	parts := make([]string, 0, len(w.Indices)+4)
	parts = append(parts, p.arrow("‹", w.Active > 0))

	ellipsis := p.styles.Muted.Render("…")
	for i, idx := range w.Indices {
		label := strconv.Itoa(idx + 1)
		if w.IsActive(idx) {
			parts = append(parts, p.styles.ActivePage.Render(label))
		} else {
			parts = append(parts, p.styles.PageButton.Render(label))
		}
		if i == 0 && w.LeadingEllipsis {
			parts = append(parts, ellipsis)
		}
		if i == len(w.Indices)-2 && w.TrailingEllipsis {
			parts = append(parts, ellipsis)
		}
	}

	parts = append(parts, p.arrow("›", w.Active < w.PageCount-1))
	summary := p.styles.Muted.Render(fmt.Sprintf("  page %d of %d", w.Active+1, w.PageCount))
	if p.typed != "" {
		summary += p.styles.Normal.Render(fmt.Sprintf("  go to %s_", p.typed))
	}
	return strings.Join(parts, " ") + summary
}

func (p *Pager) arrow(glyph string, enabled bool) string {
	if enabled {
		return p.styles.Normal.Render(glyph)
	}
	return p.styles.Muted.Render(glyph)
}

// Input feeds a key to the page number being typed. Digits accumulate
// until they name exactly one visible page, so page 10 is reached by
// typing 1 then 0, and enter settles on page 1. Any other key abandons
// the number. consumed reports whether the key belonged to the number;
// selected reports that index names the page to open.
func (p *Pager) Input(key string) (index int, selected, consumed bool) {
	if key == "enter" {
		if p.typed == "" {
			return 0, false, false
		}
		n, _ := strconv.Atoi(p.typed)
		p.typed = ""
		if p.window.Contains(n - 1) {
			return n - 1, true, true
		}
		return 0, false, true
	}

	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		p.typed = ""
		return 0, false, false
	}

	candidate := p.typed + key
	if p.matches(candidate) == 0 {
		candidate = key
		if p.matches(candidate) == 0 {
			p.typed = ""
			return 0, false, false
		}
	}

	n, _ := strconv.Atoi(candidate)
	if p.matches(candidate) == 1 && p.window.Contains(n-1) {
		p.typed = ""
		return n - 1, true, true
	}
	p.typed = candidate
	return 0, false, true
}

// Typing returns the digits typed so far.
func (p *Pager) Typing() string {
	return p.typed
}

// matches counts visible page labels starting with prefix.
func (p *Pager) matches(prefix string) int {
	if p.window.Hidden || strings.HasPrefix(prefix, "0") {
		return 0
	}
	count := 0
	for _, idx := range p.window.Indices {
		if strings.HasPrefix(strconv.Itoa(idx+1), prefix) {
			count++
		}
	}
	return count
}
