package session

import "fmt"

// Selection tracks at most one selected index into the current listing.
// It does not notice when the listing changes; the owner must Clear it.
type Selection struct {
	index int
	set   bool
}

// Select marks index as selected. size is the length of the listing the
// index refers to; anything outside [0, size) is rejected, not clamped.
func (s *Selection) Select(index, size int) error {
	if index < 0 || index >= size {
		return fmt.Errorf("%w: index %d, listing has %d entries", ErrIndexOutOfRange, index, size)
	}
	s.index = index
	s.set = true
	return nil
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.index = 0
	s.set = false
}

// Current returns the selected index, if any.
func (s Selection) Current() (int, bool) {
	return s.index, s.set
}
