// Package catalog provides the filterable, paged service catalog view.
//
// Filter edits go through the filter form so the synchronizer can debounce
// them. Fetches triggered by the synchronizer or the pager run outside the
// Bubbletea loop; their results arrive through subscriptions that are
// forwarded into the program on a channel.
package catalog

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/pager"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medmart-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
)

// BrowserFactory builds a fresh browsing session.
type BrowserFactory func(settings domain.CatalogSettings) driving.CatalogBrowser

// Filter field order.
const (
	FieldPriceMin = iota
	FieldPriceMax
	FieldDurationMin
	FieldDurationMax
	FieldTemplates
	FieldSort
	fieldCount
)

// activity wraps a message produced by one browsing session.
type activity struct {
	session int
	msg     tea.Msg
}

// View shows the filter form, one page of results and the page buttons.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	fields    []*input.Field
	list      *list.ServiceList
	pager     *pager.Pager
	statusbar *status.Bar

	catalog    driving.CatalogService
	newBrowser BrowserFactory
	settings   domain.CatalogSettings
	ctx        context.Context

	browser *driving.CatalogBrowser
	session int
	unsubs  []func()
	events  chan tea.Msg
	done    chan struct{}

	filtering bool
	field     int
	err       error
	width     int
	height    int
}

// NewView creates a catalog view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	catalog driving.CatalogService,
	newBrowser BrowserFactory,
	settings domain.CatalogSettings,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	fields := make([]*input.Field, fieldCount)
	fields[FieldPriceMin] = input.NewField(s, "Price from", "any")
	fields[FieldPriceMax] = input.NewField(s, "to", "any")
	fields[FieldDurationMin] = input.NewField(s, "Minutes from", "any")
	fields[FieldDurationMax] = input.NewField(s, "to", "any")
	fields[FieldTemplates] = input.NewField(s, "Templates", "e.g. 1,4")
	fields[FieldSort] = input.NewField(s, "Sort", "default")

	return &View{
		styles:     s,
		keymap:     km,
		fields:     fields,
		list:       list.NewServiceList(s),
		pager:      pager.New(s),
		statusbar:  status.NewBar(s, km),
		catalog:    catalog,
		newBrowser: newBrowser,
		settings:   settings,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for fetches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init opens a browsing session.
func (v *View) Init() tea.Cmd {
	return v.Open()
}

// Open starts a new session at the router's current location, closing
// any previous one.
func (v *View) Open() tea.Cmd {
	v.Close()
	if v.newBrowser == nil || v.catalog == nil {
		return nil
	}

	b := v.newBrowser(v.settings)
	v.browser = &b
	v.session++
	v.events = make(chan tea.Msg, 16)
	v.done = make(chan struct{})
	v.err = nil
	v.filtering = false
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateLoading)

	send := forward(v.events, v.done)
	v.unsubs = append(v.unsubs,
		v.catalog.SubscribePage(func(p domain.ServicePage) {
			send(messages.CatalogPageLoaded{Page: p})
		}),
		b.Pager.SubscribeWindow(func(w domain.ButtonWindow) {
			send(messages.PageWindowChanged{Window: w})
		}),
		b.Sync.SubscribeErrors(func(err error) {
			send(messages.ErrorOccurred{Err: err})
		}),
		b.Pager.SubscribeErrors(func(err error) {
			send(messages.ErrorOccurred{Err: err})
		}),
	)

	ctx, session := v.ctx, v.session
	start := func() tea.Msg {
		err := b.Sync.Start(ctx)
		b.Pager.Open(ctx)
		return activity{session: session, msg: messages.BrowserStarted{Filters: b.Form.Value(), Err: err}}
	}
	return tea.Batch(v.waitForActivity(), start)
}

// Close ends the session. Pending edits are dropped.
func (v *View) Close() {
	if v.browser == nil {
		return
	}
	close(v.done)
	for _, unsub := range v.unsubs {
		unsub()
	}
	v.unsubs = nil
	v.browser.Sync.Stop()
	v.browser.Pager.Close()
	v.browser = nil
}

// IsOpen reports whether a session is running.
func (v *View) IsOpen() bool {
	return v.browser != nil
}

// forward sends into events until done is closed.
func forward(events chan<- tea.Msg, done <-chan struct{}) func(tea.Msg) {
	return func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-done:
		}
	}
}

func (v *View) waitForActivity() tea.Cmd {
	events, done, session := v.events, v.done, v.session
	return func() tea.Msg {
		select {
		case msg := <-events:
			return activity{session: session, msg: msg}
		case <-done:
			return nil
		}
	}
}

// Update handles messages for the catalog view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case activity:
		if msg.session != v.session || v.browser == nil {
			return v, nil
		}
		v.handleActivity(msg.msg)
		if _, started := msg.msg.(messages.BrowserStarted); started {
			return v, nil
		}
		if _, moved := msg.msg.(messages.PageMoved); moved {
			return v, nil
		}
		return v, v.waitForActivity()

	case messages.SettingsReloaded:
		prev := v.settings.PageSize
		v.settings = msg.Settings.Catalog
		v.statusbar.SetMessage("Settings reloaded")
		if size := v.settings.PageSize; v.browser != nil && size > 0 && size != prev {
			v.browser.Sync.SetPageSize(size)
			return v, v.move(func(p driving.CatalogPager) bool { return p.SetPageSize(size) })
		}
		return v, nil

	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilterKey(msg)
		}
		return v.handleResultsKey(msg)
	}

	return v, nil
}

func (v *View) handleActivity(msg tea.Msg) {
	switch msg := msg.(type) {
	case messages.BrowserStarted:
		v.fillFields(msg.Filters)
		if msg.Err != nil {
			v.setError(msg.Err)
		}
	case messages.CatalogPageLoaded:
		v.err = nil
		v.list.SetServices(msg.Page.Documents)
		v.statusbar.SetTotal(msg.Page.Count)
		if !v.filtering {
			v.statusbar.SetState(status.StateResults)
		}
	case messages.PageWindowChanged:
		v.pager.SetWindow(msg.Window)
	case messages.PageMoved:
		if msg.Err != nil {
			v.setError(msg.Err)
		}
	case messages.ErrorOccurred:
		v.setError(msg.Err)
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	key := msg.String()

	if idx, selected, consumed := v.pager.Input(key); consumed {
		if selected {
			return v, v.click(idx)
		}
		return v, nil
	}

	switch {
	case msg.Type == tea.KeyEsc:
		v.Close()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, km.Filter):
		v.filtering = true
		v.statusbar.SetState(status.StateFiltering)
		return v, v.fields[v.field].Focus()
	case keymap.Matches(key, km.ResetFilters):
		if v.browser != nil {
			v.browser.Form.Reset()
			v.fillFields(v.browser.Form.Value())
		}
		return v, nil
	case keymap.Matches(key, km.NextPage):
		return v, v.move(func(p driving.CatalogPager) bool { return p.Next() })
	case keymap.Matches(key, km.PrevPage):
		return v, v.move(func(p driving.CatalogPager) bool { return p.Previous() })
	case keymap.Matches(key, km.FirstPage):
		return v, v.move(func(p driving.CatalogPager) bool { return p.First() })
	case keymap.Matches(key, km.LastPage):
		return v, v.move(func(p driving.CatalogPager) bool { return p.Last() })
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // only form control keys are handled here
	switch msg.Type {
	case tea.KeyEsc:
		v.blurFilters()
		return v, nil
	case tea.KeyEnter:
		v.blurFilters()
		return v, v.flush()
	case tea.KeyTab, tea.KeyShiftTab:
		v.fields[v.field].Blur()
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = fieldCount - 1
		}
		v.field = (v.field + step) % fieldCount
		return v, v.fields[v.field].Focus()
	}

	field := v.fields[v.field]
	before := field.Value()
	_, cmd := field.Update(msg)
	if field.Value() != before && v.browser != nil {
		v.browser.Form.SetValue(v.Filters())
	}
	return v, cmd
}

func (v *View) blurFilters() {
	v.filtering = false
	v.fields[v.field].Blur()
	if v.err == nil {
		v.statusbar.SetState(status.StateResults)
	}
}

// move runs a pager step off the UI loop, since it fetches.
func (v *View) move(step func(driving.CatalogPager) bool) tea.Cmd {
	if v.browser == nil {
		return nil
	}
	p, session := v.browser.Pager, v.session
	return func() tea.Msg {
		return activity{session: session, msg: messages.PageMoved{Moved: step(p)}}
	}
}

func (v *View) click(index int) tea.Cmd {
	if v.browser == nil {
		return nil
	}
	p, session := v.browser.Pager, v.session
	return func() tea.Msg {
		err := p.Click(index)
		return activity{session: session, msg: messages.PageMoved{Moved: err == nil, Err: err}}
	}
}

func (v *View) flush() tea.Cmd {
	if v.browser == nil {
		return nil
	}
	synchronizer := v.browser.Sync
	return func() tea.Msg {
		synchronizer.Flush()
		return nil
	}
}

// Filters reads the form fields. Blank or invalid numbers mean no bound.
func (v *View) Filters() domain.FilterState {
	return domain.FilterState{
		Price: domain.Range{
			Min: v.fields[FieldPriceMin].IntValue(),
			Max: v.fields[FieldPriceMax].IntValue(),
		},
		Duration: domain.Range{
			Min: v.fields[FieldDurationMin].IntValue(),
			Max: v.fields[FieldDurationMax].IntValue(),
		},
		TemplateIDs: parseIDs(v.fields[FieldTemplates].Value()),
		Sort:        strings.TrimSpace(v.fields[FieldSort].Value()),
	}
}

func (v *View) fillFields(f domain.FilterState) {
	v.fields[FieldPriceMin].SetIntValue(f.Price.Min)
	v.fields[FieldPriceMax].SetIntValue(f.Price.Max)
	v.fields[FieldDurationMin].SetIntValue(f.Duration.Min)
	v.fields[FieldDurationMax].SetIntValue(f.Duration.Max)

	ids := make([]string, len(f.TemplateIDs))
	for i, id := range f.TemplateIDs {
		ids[i] = strconv.Itoa(id)
	}
	v.fields[FieldTemplates].SetValue(strings.Join(ids, ","))
	v.fields[FieldSort].SetValue(f.Sort)
}

func parseIDs(raw string) []int {
	ids := []int{}
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return domain.NormalizeTemplateIDs(ids)
}

// View renders the catalog.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Services"))
	b.WriteString("\n\n")

	//nolint:misspell // lipgloss.Center is the correct constant from the library
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		v.fields[FieldPriceMin].View(), " ", v.fields[FieldPriceMax].View(), "   ",
		v.fields[FieldDurationMin].View(), " ", v.fields[FieldDurationMax].View()))
	b.WriteString("\n")
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		v.fields[FieldTemplates].View(), "   ", v.fields[FieldSort].View()))
	b.WriteString("\n\n")

	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if pages := v.pager.View(); pages != "" {
		b.WriteString(pages)
		b.WriteString("\n")
	}
	b.WriteString(v.statusbar.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	for _, f := range v.fields {
		f.SetWidth(width / 4)
	}
	// Title, two filter rows, pager and status bar.
	v.list.SetDimensions(width, max(height-14, 2))
}

// SetSettings sets the settings used by the next session.
func (v *View) SetSettings(settings domain.CatalogSettings) {
	v.settings = settings
}

// Settings returns the settings used by new sessions.
func (v *View) Settings() domain.CatalogSettings {
	return v.settings
}

// Filtering reports whether the filter form has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Services returns the listings on screen.
func (v *View) Services() []domain.DoctorService {
	return v.list.Services()
}

// Window returns the page buttons on screen.
func (v *View) Window() domain.ButtonWindow {
	return v.pager.Window()
}

// Err returns the last fetch error.
func (v *View) Err() error {
	return v.err
}
