package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medmart-cli/internal/logger"
)

// Ensure CatalogPage implements the interface.
var _ driving.CatalogPager = (*CatalogPage)(nil)

// CatalogPage drives the paged catalog view: it binds the location's page
// to the paginator, keeps the button window in step with the result count
// and turns page events into navigation plus a fetch.
type CatalogPage struct {
	router    driving.Router
	catalog   driving.CatalogService
	paginator *Paginator
	renderer  *PaginationRenderer
	lifetime  *Lifetime
	errors    *Subject[error]

	mu          sync.Mutex
	ctx         context.Context
	currentPage int
	pageSize    int
}

// NewCatalogPage creates the page controller.
func NewCatalogPage(router driving.Router, catalog driving.CatalogService, settings domain.CatalogSettings) *CatalogPage {
	paginator := NewPaginator(settings.PageSize)
	return &CatalogPage{
		router:    router,
		catalog:   catalog,
		paginator: paginator,
		renderer:  NewPaginationRenderer(paginator, 0, RendererConfigFrom(settings)),
		lifetime:  NewLifetime(),
		errors:    NewSubject[error](),
		pageSize:  paginator.PageSize(),
	}
}

// Paginator returns the underlying paginator.
func (c *CatalogPage) Paginator() *Paginator {
	return c.paginator
}

// Renderer returns the page button renderer.
func (c *CatalogPage) Renderer() *PaginationRenderer {
	return c.renderer
}

// Open binds the view. The current page comes from the location's page
// parameter, 1 when absent.
func (c *CatalogPage) Open(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.currentPage = locationPage(c.router.Current())
	page := c.currentPage
	c.mu.Unlock()

	if latest, ok := c.catalog.Page(); ok {
		c.renderer.SetLength(latest.Count)
	}
	c.paginator.SetPageIndex(page)
	c.renderer.Init()

	c.lifetime.Add(c.renderer.Destroy)
	c.lifetime.Add(c.paginator.Subscribe(func(ev domain.PageEvent) {
		c.OnPageChange(ev)
	}))
	c.lifetime.Add(c.catalog.SubscribeCount(func(n int) {
		c.renderer.SetLength(n)
		c.alignActive(c.router.Current())
	}))
	c.lifetime.Add(c.router.Subscribe(c.alignActive))
}

// Close tears down every subscription made by Open.
func (c *CatalogPage) Close() {
	c.lifetime.Close()
}

// CurrentPage returns the 1-based page last bound from the location or
// selected by the user.
func (c *CatalogPage) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// OnPageChange navigates to the selected page and fetches it using the
// location snapshot merged with page and perPage.
func (c *CatalogPage) OnPageChange(ev domain.PageEvent) {
	c.mu.Lock()
	ctx := c.ctx
	c.currentPage = ev.PageIndex + 1
	c.pageSize = ev.PageSize
	page, size := c.currentPage, c.pageSize
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	extra := domain.NewQueryParameterSet()
	extra.SetInt(domain.ParamPage, page)
	extra.SetInt(domain.ParamPerPage, size)

	c.router.Navigate(ctx, extra, driving.NavigateOptions{Merge: true})

	params := c.router.Current().Merge(extra)
	if _, err := c.catalog.LoadPage(ctx, params); err != nil {
		logger.Warn("page change fetch failed: %v", err)
		c.errors.Publish(err)
	}
}

// Window returns the visible page buttons.
func (c *CatalogPage) Window() domain.ButtonWindow {
	return c.renderer.Window()
}

// SubscribeWindow receives every rebuilt button window.
func (c *CatalogPage) SubscribeWindow(fn func(domain.ButtonWindow)) func() {
	return c.renderer.SubscribeWindow(fn)
}

// Click selects the page button at index.
func (c *CatalogPage) Click(index int) error {
	_, err := c.renderer.Click(index)
	return err
}

// Next moves to the following page.
func (c *CatalogPage) Next() bool { return c.paginator.Next() }

// Previous moves to the preceding page.
func (c *CatalogPage) Previous() bool { return c.paginator.Previous() }

// First moves to the first page.
func (c *CatalogPage) First() bool { return c.paginator.First() }

// Last moves to the last page.
func (c *CatalogPage) Last() bool { return c.paginator.Last() }

// SetPageSize changes the page size through the paginator, which emits a
// page event like any other navigation.
func (c *CatalogPage) SetPageSize(size int) bool {
	if size <= 0 || size == c.paginator.PageSize() {
		return false
	}
	c.paginator.SetPageSize(size)
	return true
}

// SubscribeErrors receives fetch failures caused by page changes.
func (c *CatalogPage) SubscribeErrors(fn func(error)) func() {
	return c.errors.Subscribe(fn)
}

// alignActive highlights the page named by the location without emitting.
func (c *CatalogPage) alignActive(q domain.QueryParameterSet) {
	idx := locationPage(q) - 1
	if idx >= c.paginator.PageCount() {
		return
	}
	if c.renderer.Active() != idx {
		c.renderer.SetActive(idx)
	}
}

// locationPage returns the 1-based page parameter, 1 when absent or invalid.
func locationPage(q domain.QueryParameterSet) int {
	if p, ok := q.Int(domain.ParamPage); ok && p >= 1 {
		return p
	}
	return 1
}
