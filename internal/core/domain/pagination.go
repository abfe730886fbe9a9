package domain

// Pagination defaults.
const (
	// DefaultPageSize is the number of services fetched per page.
	DefaultPageSize = 10

	// DefaultButtonRadius is the number of neighbour buttons shown on each
	// side of the active page.
	DefaultButtonRadius = 2
)

// PageCount returns ceil(totalItems / pageSize), or 0 when either is non-positive.
func PageCount(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// PaginationState describes the paged view of a result set.
type PaginationState struct {
	TotalItems       int
	PageSize         int
	CurrentPageIndex int
}

// PageCount returns the number of pages.
func (p PaginationState) PageCount() int {
	return PageCount(p.TotalItems, p.PageSize)
}

// HasNext reports whether a page exists after the current one.
func (p PaginationState) HasNext() bool {
	return p.CurrentPageIndex < p.PageCount()-1
}

// HasPrevious reports whether a page exists before the current one.
func (p PaginationState) HasPrevious() bool {
	return p.CurrentPageIndex > 0
}

// PageEvent is emitted whenever the selected page or page size changes.
// Native paginator navigation and custom button clicks share this shape.
type PageEvent struct {
	PreviousPageIndex int
	PageIndex         int
	PageSize          int
	Length            int
}

// WindowOptions are the inputs of ComputeWindow.
type WindowOptions struct {
	TotalItems      int
	PageSize        int
	CurrentIndex    int
	Radius          int
	ShowFirstButton bool
	ShowLastButton  bool
}

// DefaultWindowOptions returns options with the default radius and both
// first and last buttons enabled.
func DefaultWindowOptions(totalItems, pageSize, currentIndex int) WindowOptions {
	return WindowOptions{
		TotalItems:      totalItems,
		PageSize:        pageSize,
		CurrentIndex:    currentIndex,
		Radius:          DefaultButtonRadius,
		ShowFirstButton: true,
		ShowLastButton:  true,
	}
}

// ButtonWindow is the set of numbered page buttons to display.
type ButtonWindow struct {
	// PageCount is the total number of pages.
	PageCount int

	// Indices are the zero-based page indices to render, ascending and unique.
	Indices []int

	// Active is the highlighted page index.
	Active int

	// LeadingEllipsis is set when pages are skipped after the first button.
	LeadingEllipsis bool

	// TrailingEllipsis is set when pages are skipped before the last button.
	TrailingEllipsis bool

	// Hidden is set when there is at most one page; Indices is then empty.
	Hidden bool
}

// Contains reports whether index i is rendered.
func (w ButtonWindow) Contains(i int) bool {
	for _, idx := range w.Indices {
		if idx == i {
			return true
		}
	}
	return false
}

// IsActive reports whether i is the highlighted button.
func (w ButtonWindow) IsActive(i int) bool {
	return !w.Hidden && w.Active == i
}

// ComputeWindow decides which page buttons are visible.
//
// With n pages and current index i (clamped to [0, n)), the neighbour range
// runs from i-r to i+r cut to the page bounds. The first and last pages are
// always included when their buttons are enabled, and an ellipsis marks the
// gap between them and the range. At most one page hides the control.
func ComputeWindow(opts WindowOptions) ButtonWindow {
	n := PageCount(opts.TotalItems, opts.PageSize)
	if n <= 1 {
		return ButtonWindow{PageCount: n, Indices: []int{}, Hidden: true}
	}

	r := max(opts.Radius, 0)
	i := min(max(opts.CurrentIndex, 0), n-1)

	trailing := i+r < n-1
	leading := i-r > 0

	start := 0
	if leading {
		start = i - r
	}
	end := n
	if trailing {
		end = i + r + 1
	}

	indices := make([]int, 0, end-start+2)
	if opts.ShowFirstButton && start > 0 {
		indices = append(indices, 0)
	}
	for p := start; p < end; p++ {
		indices = append(indices, p)
	}
	if opts.ShowLastButton && end < n {
		indices = append(indices, n-1)
	}

	return ButtonWindow{
		PageCount:        n,
		Indices:          indices,
		Active:           i,
		LeadingEllipsis:  leading && opts.ShowFirstButton,
		TrailingEllipsis: trailing && opts.ShowLastButton,
	}
}
