package views

// Paginator keeps a cursor over a list and the window of rows that fits on
// screen. The window always contains the cursor.
type Paginator struct {
	size   int
	offset int
	cursor int
	total  int
}

// NewPaginator creates a paginator showing size rows at a time
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetTotal sets the list length, clamping the cursor to it
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	p.SetCursor(p.cursor)
}

// SetPageSize changes the window height; non-positive sizes are ignored
func (p *Paginator) SetPageSize(size int) {
	if size > 0 {
		p.size = size
		p.follow()
	}
}

// Cursor returns the absolute cursor index
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor to pos, clamped to the list
func (p *Paginator) SetCursor(pos int) {
	p.cursor = max(min(pos, p.total-1), 0)
	p.follow()
}

// CursorUp moves the cursor one row up
func (p *Paginator) CursorUp() bool {
	if p.cursor == 0 {
		return false
	}
	p.SetCursor(p.cursor - 1)
	return true
}

// CursorDown moves the cursor one row down
func (p *Paginator) CursorDown() bool {
	if p.cursor >= p.total-1 {
		return false
	}
	p.SetCursor(p.cursor + 1)
	return true
}

// PageDown moves the cursor a full window down, stopping at the last row
func (p *Paginator) PageDown() {
	p.SetCursor(p.cursor + p.size)
}

// PageUp moves the cursor a full window up, stopping at the first row
func (p *Paginator) PageUp() {
	p.SetCursor(p.cursor - p.size)
}

// VisibleRange returns the half-open index range of the window
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

// TotalPages returns the number of windows, at least 1
func (p *Paginator) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// CurrentPage returns the 1-based window number
func (p *Paginator) CurrentPage() int {
	return p.offset/p.size + 1
}

func (p *Paginator) follow() {
	if p.cursor < p.offset || p.cursor >= p.offset+p.size {
		p.offset = (p.cursor / p.size) * p.size
	}
}
