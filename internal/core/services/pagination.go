package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

// Paginator is the underlying page model. Its navigation methods emit a
// domain.PageEvent for every page or page size change.
type Paginator struct {
	mu        sync.Mutex
	pageIndex int
	pageSize  int
	length    int
	events    *Subject[domain.PageEvent]
}

// NewPaginator creates a paginator on page 0.
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Paginator{
		pageSize: pageSize,
		events:   NewSubject[domain.PageEvent](),
	}
}

// PageIndex returns the current page index.
func (p *Paginator) PageIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageIndex
}

// PageSize returns the number of items per page.
func (p *Paginator) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageSize
}

// Length returns the total number of items.
func (p *Paginator) Length() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.length
}

// PageCount returns the number of pages.
func (p *Paginator) PageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.PageCount(p.length, p.pageSize)
}

// SetLength sets the total number of items without emitting.
func (p *Paginator) SetLength(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.length = max(n, 0)
}

// SetPageIndex moves to page i without emitting.
func (p *Paginator) SetPageIndex(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageIndex = i
}

// GoTo moves to page i and emits the resulting event.
func (p *Paginator) GoTo(i int) domain.PageEvent {
	p.mu.Lock()
	ev := domain.PageEvent{
		PreviousPageIndex: p.pageIndex,
		PageIndex:         i,
		PageSize:          p.pageSize,
		Length:            p.length,
	}
	p.pageIndex = i
	p.mu.Unlock()

	p.events.Publish(ev)
	return ev
}

// Next moves to the following page. It reports whether the page changed.
func (p *Paginator) Next() bool {
	i, n := p.PageIndex(), p.PageCount()
	if i >= n-1 {
		return false
	}
	p.GoTo(i + 1)
	return true
}

// Previous moves to the preceding page. It reports whether the page changed.
func (p *Paginator) Previous() bool {
	i := p.PageIndex()
	if i <= 0 {
		return false
	}
	p.GoTo(i - 1)
	return true
}

// First moves to page 0. It reports whether the page changed.
func (p *Paginator) First() bool {
	if p.PageIndex() == 0 {
		return false
	}
	p.GoTo(0)
	return true
}

// Last moves to the final page. It reports whether the page changed.
func (p *Paginator) Last() bool {
	n := p.PageCount()
	if n == 0 || p.PageIndex() == n-1 {
		return false
	}
	p.GoTo(n - 1)
	return true
}

// SetPageSize changes the page size, keeping the first visible item on
// screen, and emits the resulting event.
func (p *Paginator) SetPageSize(size int) domain.PageEvent {
	if size <= 0 {
		size = domain.DefaultPageSize
	}

	p.mu.Lock()
	prev := p.pageIndex
	first := p.pageIndex * p.pageSize
	p.pageSize = size
	p.pageIndex = first / size
	ev := domain.PageEvent{
		PreviousPageIndex: prev,
		PageIndex:         p.pageIndex,
		PageSize:          size,
		Length:            p.length,
	}
	p.mu.Unlock()

	p.events.Publish(ev)
	return ev
}

// Subscribe receives every emitted page event.
func (p *Paginator) Subscribe(fn func(domain.PageEvent)) func() {
	return p.events.Subscribe(fn)
}

// RendererState is the lifecycle state of a PaginationRenderer.
type RendererState int

// Renderer lifecycle states.
const (
	RendererUninitialized RendererState = iota
	RendererBuilt
	RendererRebuilding
)

// String returns the state name.
func (s RendererState) String() string {
	switch s {
	case RendererUninitialized:
		return "uninitialized"
	case RendererBuilt:
		return "built"
	case RendererRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// RendererConfig configures the page button window.
type RendererConfig struct {
	Radius          int
	ShowFirstButton bool
	ShowLastButton  bool
}

// DefaultRendererConfig returns radius 2 with first and last buttons shown.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		Radius:          domain.DefaultButtonRadius,
		ShowFirstButton: true,
		ShowLastButton:  true,
	}
}

// RendererConfigFrom derives a renderer configuration from catalog settings.
func RendererConfigFrom(c domain.CatalogSettings) RendererConfig {
	return RendererConfig{
		Radius:          c.Radius,
		ShowFirstButton: c.ShowFirstButton,
		ShowLastButton:  c.ShowLastButton,
	}
}

// PaginationRenderer maintains the numbered page buttons shown next to a
// Paginator. Clicking a button drives the paginator exactly like its own
// navigation, so listeners see a single kind of event.
type PaginationRenderer struct {
	paginator *Paginator
	cfg       RendererConfig

	mu      sync.Mutex
	state   RendererState
	length  int
	active  int
	window  domain.ButtonWindow
	windows *Subject[domain.ButtonWindow]
	unsub   func()
}

// NewPaginationRenderer creates an uninitialized renderer for p.
func NewPaginationRenderer(p *Paginator, length int, cfg RendererConfig) *PaginationRenderer {
	return &PaginationRenderer{
		paginator: p,
		cfg:       cfg,
		length:    max(length, 0),
		window:    domain.ButtonWindow{Indices: []int{}, Hidden: true},
		windows:   NewReplaySubject[domain.ButtonWindow](),
	}
}

// Init builds the buttons once the view is ready. The initial active page
// is the paginator's reported index minus one, or 0 when that is negative.
// Later calls are no-ops.
func (r *PaginationRenderer) Init() {
	r.mu.Lock()
	if r.state != RendererUninitialized {
		r.mu.Unlock()
		return
	}
	r.active = max(r.paginator.PageIndex()-1, 0)
	r.paginator.SetLength(r.length)
	r.paginator.SetPageIndex(r.active)
	r.state = RendererBuilt
	w := r.recompute()
	r.mu.Unlock()

	r.windows.Publish(w)

	unsub := r.paginator.Subscribe(r.onPage)
	r.mu.Lock()
	r.unsub = unsub
	r.mu.Unlock()
}

// SetLength updates the total item count. A change after Init tears the
// buttons down and rebuilds them with page 0 active, without emitting.
func (r *PaginationRenderer) SetLength(n int) {
	n = max(n, 0)

	r.mu.Lock()
	if r.state == RendererUninitialized {
		r.length = n
		r.mu.Unlock()
		return
	}
	if n == r.length {
		r.mu.Unlock()
		return
	}
	r.state = RendererRebuilding
	r.length = n
	r.active = 0
	r.paginator.SetLength(n)
	r.paginator.SetPageIndex(0)
	w := r.recompute()
	r.state = RendererBuilt
	r.mu.Unlock()

	r.windows.Publish(w)
}

// SetActive highlights page i without emitting.
func (r *PaginationRenderer) SetActive(i int) {
	r.mu.Lock()
	if r.state == RendererUninitialized {
		r.mu.Unlock()
		return
	}
	r.active = max(i, 0)
	r.paginator.SetPageIndex(r.active)
	w := r.recompute()
	r.mu.Unlock()

	r.windows.Publish(w)
}

// Click selects the button for page i. It emits the same event the
// paginator emits for its own navigation.
func (r *PaginationRenderer) Click(i int) (domain.PageEvent, error) {
	r.mu.Lock()
	state, w := r.state, r.window
	r.mu.Unlock()

	if state == RendererUninitialized {
		return domain.PageEvent{}, fmt.Errorf("click page %d: renderer not initialised", i)
	}
	if w.Hidden || i < 0 || i >= w.PageCount {
		return domain.PageEvent{}, fmt.Errorf("click page %d: %w", i, domain.ErrInvalidInput)
	}
	return r.paginator.GoTo(i), nil
}

// Window returns the currently visible buttons.
func (r *PaginationRenderer) Window() domain.ButtonWindow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window
}

// State returns the lifecycle state.
func (r *PaginationRenderer) State() RendererState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Active returns the highlighted page index.
func (r *PaginationRenderer) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window.Active
}

// SubscribeWindow receives every rebuilt or restyled window.
func (r *PaginationRenderer) SubscribeWindow(fn func(domain.ButtonWindow)) func() {
	return r.windows.Subscribe(fn)
}

// Destroy detaches the renderer from the paginator.
func (r *PaginationRenderer) Destroy() {
	r.mu.Lock()
	unsub := r.unsub
	r.unsub = nil
	r.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (r *PaginationRenderer) onPage(ev domain.PageEvent) {
	r.mu.Lock()
	r.active = ev.PageIndex
	w := r.recompute()
	r.mu.Unlock()

	r.windows.Publish(w)
}

// recompute derives the window from the current state (caller must hold lock).
func (r *PaginationRenderer) recompute() domain.ButtonWindow {
	r.window = domain.ComputeWindow(domain.WindowOptions{
		TotalItems:      r.length,
		PageSize:        r.paginator.PageSize(),
		CurrentIndex:    r.active,
		Radius:          r.cfg.Radius,
		ShowFirstButton: r.cfg.ShowFirstButton,
		ShowLastButton:  r.cfg.ShowLastButton,
	})
	return r.window
}
