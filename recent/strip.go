package recent

// Strip tracks the horizontal scroll position of the recent list.
// Offsets are item indexes; one scroll step moves config.RecentScrollStep items.
type Strip struct {
	widths   []int
	gap      int
	viewport int
	offset   int
	step     int
	focus    int
}

// NewStrip creates a strip with gap cells between items
func NewStrip(gap, step int) *Strip {
	if step < 1 {
		step = 1
	}
	return &Strip{gap: gap, step: step}
}

// SetItems replaces the item widths and clamps offset and focus
func (s *Strip) SetItems(widths []int) {
	s.widths = append(s.widths[:0], widths...)
	s.clamp()
}

// SetViewport updates the visible width in cells
func (s *Strip) SetViewport(width int) {
	s.viewport = width
	s.clamp()
}

// Len returns the number of items
func (s *Strip) Len() int { return len(s.widths) }

// Hidden is true when there is nothing to show
func (s *Strip) Hidden() bool { return len(s.widths) == 0 }

// Offset returns the index of the first visible item
func (s *Strip) Offset() int { return s.offset }

// Focus returns the index of the focused item
func (s *Strip) Focus() int { return s.focus }

// CanScrollLeft is false at the start of the strip
func (s *Strip) CanScrollLeft() bool { return s.offset > 0 }

// CanScrollRight is false when nothing overflows or the last item is visible
func (s *Strip) CanScrollRight() bool {
	return s.widthFrom(s.offset) > s.viewport
}

// ScrollLeft moves one step toward the start
func (s *Strip) ScrollLeft() {
	s.offset -= s.step
	if s.offset < 0 {
		s.offset = 0
	}
	if s.focus >= s.offset+s.visibleCount() || s.focus < s.offset {
		s.focus = s.offset
	}
}

// ScrollRight moves one step toward the end
func (s *Strip) ScrollRight() {
	for i := 0; i < s.step && s.CanScrollRight(); i++ {
		s.offset++
	}
	if s.focus < s.offset {
		s.focus = s.offset
	}
}

// MoveFocus shifts focus by delta, scrolling to keep it visible
func (s *Strip) MoveFocus(delta int) {
	if len(s.widths) == 0 {
		return
	}
	s.focus += delta
	if s.focus < 0 {
		s.focus = 0
	}
	if s.focus >= len(s.widths) {
		s.focus = len(s.widths) - 1
	}
	for s.focus < s.offset {
		s.offset--
	}
	for s.focus >= s.offset+s.visibleCount() && s.CanScrollRight() {
		s.offset++
	}
}

// Visible returns the half-open index range of items that fit the viewport.
// At least one item is reported when the strip is not empty.
func (s *Strip) Visible() (start, end int) {
	return s.offset, s.offset + s.visibleCount()
}

func (s *Strip) visibleCount() int {
	used, n := 0, 0
	for i := s.offset; i < len(s.widths); i++ {
		w := s.widths[i]
		if n > 0 {
			w += s.gap
		}
		if used+w > s.viewport && n > 0 {
			break
		}
		used += w
		n++
	}
	return n
}

func (s *Strip) widthFrom(start int) int {
	total := 0
	for i := start; i < len(s.widths); i++ {
		if i > start {
			total += s.gap
		}
		total += s.widths[i]
	}
	return total
}

func (s *Strip) clamp() {
	if len(s.widths) == 0 {
		s.offset, s.focus = 0, 0
		return
	}
	if s.offset >= len(s.widths) {
		s.offset = len(s.widths) - 1
	}
	for s.offset > 0 && s.widthFrom(s.offset-1) <= s.viewport {
		s.offset--
	}
	if s.focus >= len(s.widths) {
		s.focus = len(s.widths) - 1
	}
}
