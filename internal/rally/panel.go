package rally

import "github.com/stampwalk/stampwalk/internal/gateway"

// PanelEntry is one stamp row in the collapsible panel. Checked is owned by
// the sync engine; everything else comes from the catalog fetch.
type PanelEntry struct {
	ID       string
	Name     string
	Location string
	Desc     string
	Checked  bool
}

// StampPanel is the collapsible stamp list at the bottom of the page.
type StampPanel struct {
	Entries []PanelEntry

	open   bool
	scroll int
}

// SetCatalog replaces the rendered entries from a fetched stamp catalog.
// Checked state of entries that survive (same ID) is preserved.
func (p *StampPanel) SetCatalog(stamps []gateway.Stamp) {
	checked := make(map[string]bool, len(p.Entries))
	for _, e := range p.Entries {
		if e.Checked {
			checked[e.ID] = true
		}
	}
	p.Entries = p.Entries[:0]
	for _, s := range stamps {
		p.Entries = append(p.Entries, PanelEntry{
			ID:       s.ID,
			Name:     s.Name,
			Location: s.Location,
			Desc:     s.Desc,
			Checked:  checked[s.ID],
		})
	}
	if p.scroll > p.maxScroll() {
		p.scroll = p.maxScroll()
	}
}

// IsOpen reports whether the panel is expanded.
func (p *StampPanel) IsOpen() bool { return p.open }

// AtTop reports whether the list is scrolled to its top.
func (p *StampPanel) AtTop() bool { return p.scroll == 0 }

// ScrollOffset returns the current scroll position in rows.
func (p *StampPanel) ScrollOffset() int { return p.scroll }

// Scroll moves the list by delta rows, clamped to the content.
func (p *StampPanel) Scroll(delta int) {
	p.scroll += delta
	if p.scroll < 0 {
		p.scroll = 0
	}
	if max := p.maxScroll(); p.scroll > max {
		p.scroll = max
	}
}

func (p *StampPanel) maxScroll() int {
	if len(p.Entries) == 0 {
		return 0
	}
	return len(p.Entries) - 1
}

// ApplySwipe opens or closes the panel for a classified swipe. Opening an
// open panel or closing a closed one is a no-op.
func (p *StampPanel) ApplySwipe(dir SwipeDirection) {
	switch dir {
	case SwipeUp:
		p.open = true
	case SwipeDown:
		p.open = false
		p.scroll = 0
	}
}

// Mark sets the checked state for id and reports whether the entry is
// currently rendered. Re-marking a checked entry is a safe no-op; nothing
// ever unchecks an entry.
func (p *StampPanel) Mark(id string) bool {
	for i := range p.Entries {
		if p.Entries[i].ID == id {
			p.Entries[i].Checked = true
			return true
		}
	}
	return false
}

// CheckedCount returns how many entries are checked.
func (p *StampPanel) CheckedCount() int {
	n := 0
	for _, e := range p.Entries {
		if e.Checked {
			n++
		}
	}
	return n
}
