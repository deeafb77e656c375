package query

import (
	"strings"
	"sync"
)

// maxHistory bounds the number of retained history entries.
const maxHistory = 200

// Change is the result of a controller operation: the new state and the
// address that represents it, produced together.
type Change struct {
	State   State
	Address string
	// Scroll asks the presentation to move back to the top of the list.
	Scroll bool
}

// Controller owns the current search state and its navigation history. All
// mutations replace the whole state under one lock, so a page change and a
// filter change fired together never produce a torn address.
type Controller struct {
	mu      sync.Mutex
	history []Change
	cursor  int
}

// NewController starts a controller at the given address.
func NewController(address string) *Controller {
	st := Derive(address)
	return &Controller{history: []Change{{State: st, Address: Encode(st)}}}
}

// Current returns the active state and address.
func (c *Controller) Current() Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

// Navigate re-derives the state from address and records it as a new
// history entry.
func (c *Controller) Navigate(address string) Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pushLocked(Derive(address), false)
}

// SetPage moves to page n, leaving sort and filters untouched. Values below
// one are treated as one. scroll is echoed on the returned Change.
func (c *Controller) SetPage(n int, scroll bool) Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.currentLocked().State
	if n < 1 {
		n = 1
	}
	st.Page = n
	return c.pushLocked(st, scroll)
}

// SetSort applies a sort field. Selecting name while already sorted by name
// flips the direction; any other selection sorts ascending. The page resets
// to one.
func (c *Controller) SetSort(field Sort) Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.currentLocked().State
	field = ParseSort(string(field))
	if field == SortName && st.Sort == SortName {
		if st.Direction == Desc {
			st.Direction = Asc
		} else {
			st.Direction = Desc
		}
	} else {
		st.Sort = field
		st.Direction = Asc
	}
	st.Page = 1
	return c.pushLocked(st, false)
}

// ToggleFilterToken adds token to d when included is true and removes it
// otherwise, then resets the page to one. It reports false without changing
// anything when d or token is outside the known domain.
func (c *Controller) ToggleFilterToken(d Dimension, token string, included bool) (Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	norm, ok := d.normalizeToken(token)
	if !ok {
		return c.currentLocked(), false
	}
	st := c.currentLocked().State
	if st.Filters == nil {
		st.Filters = make(Filters)
	}
	if included {
		st.Filters.add(d, norm)
	} else {
		st.Filters.remove(d, norm)
	}
	if len(st.Filters) == 0 {
		st.Filters = nil
	}
	st.Page = 1
	return c.pushLocked(st, false), true
}

// SetNameQuery replaces the name filter with the single term text. Blank text
// clears the name filter.
func (c *Controller) SetNameQuery(text string) Change {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.currentLocked().State
	if st.Filters == nil {
		st.Filters = make(Filters)
	}
	if term := strings.TrimSpace(text); term != "" {
		st.Filters[DimName] = []string{term}
	} else {
		delete(st.Filters, DimName)
	}
	if len(st.Filters) == 0 {
		st.Filters = nil
	}
	st.Page = 1
	return c.pushLocked(st, false)
}

// Back steps to the previous history entry.
func (c *Controller) Back() (Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor == 0 {
		return c.currentLocked(), false
	}
	c.cursor--
	return c.currentLocked(), true
}

// Forward steps to the next history entry after a Back.
func (c *Controller) Forward() (Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cursor >= len(c.history)-1 {
		return c.currentLocked(), false
	}
	c.cursor++
	return c.currentLocked(), true
}

// HistoryLen reports how many entries are retained.
func (c *Controller) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

func (c *Controller) currentLocked() Change {
	if len(c.history) == 0 {
		st := DefaultState()
		c.history = []Change{{State: st, Address: Encode(st)}}
		c.cursor = 0
	}
	ch := c.history[c.cursor]
	ch.State = ch.State.Clone()
	return ch
}

// pushLocked records st as a new entry after the cursor, discarding any
// forward entries. st must not share memory with stored entries.
func (c *Controller) pushLocked(st State, scroll bool) Change {
	if len(c.history) > 0 {
		c.history = c.history[:c.cursor+1]
	}
	entry := Change{State: st, Address: Encode(st)}
	c.history = append(c.history, entry)
	if over := len(c.history) - maxHistory; over > 0 {
		c.history = append(c.history[:0], c.history[over:]...)
	}
	c.cursor = len(c.history) - 1

	out := entry
	out.State = st.Clone()
	out.Scroll = scroll
	return out
}
