package domain

import (
	"errors"
	"fmt"
)

// NoDropdown is the ActiveDropdown value meaning "no desktop panel open".
const NoDropdown = -1

// ErrIndexOutOfRange is returned when an interaction names an entry that
// does not exist in the catalog.
var ErrIndexOutOfRange = errors.New("entry index out of range")

// State is the whole mutable state of one navbar instance.
//
// The two fields are independent: opening the mobile panel does not
// touch the desktop dropdown and vice versa.
type State struct {
	ActiveDropdown int  `json:"active_dropdown"`
	MobileMenuOpen bool `json:"mobile_menu_open"`
}

// InitialState is what every navbar starts with: nothing open.
func InitialState() State {
	return State{ActiveDropdown: NoDropdown}
}

// HasActiveDropdown reports whether a desktop dropdown is selected.
func (s State) HasActiveDropdown() bool {
	return s.ActiveDropdown != NoDropdown
}

// Controller owns the navbar state and is the only thing allowed to mutate it.
//
// It is not safe for concurrent use; the session store serialises updates.
type Controller struct {
	size  int
	state State
}

// NewController returns a controller for a catalog of size entries, in the
// initial state.
func NewController(size int) *Controller {
	if size < 0 {
		size = 0
	}
	return &Controller{size: size, state: InitialState()}
}

// RestoreController rebuilds a controller from persisted state.
// An active index that no longer fits the catalog is reset to NoDropdown.
func RestoreController(size int, s State) *Controller {
	c := NewController(size)
	c.state.MobileMenuOpen = s.MobileMenuOpen
	if s.ActiveDropdown >= 0 && s.ActiveDropdown < c.size {
		c.state.ActiveDropdown = s.ActiveDropdown
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Size returns the number of entries the controller was built for.
func (c *Controller) Size() int {
	return c.size
}

// IsOpen reports whether entry i is the active desktop dropdown.
func (c *Controller) IsOpen(i int) bool {
	return c.state.ActiveDropdown == i && i != NoDropdown
}

// PointerEnter selects entry i as the active dropdown, closing any other.
func (c *Controller) PointerEnter(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	c.state.ActiveDropdown = i
	return nil
}

// PointerLeave clears the active dropdown, but only when i is the entry
// that is currently active. A leave for any other entry is a no-op, so a
// late leave can never close a dropdown opened by a newer enter.
func (c *Controller) PointerLeave(i int) error {
	if err := c.check(i); err != nil {
		return err
	}
	if c.state.ActiveDropdown == i {
		c.state.ActiveDropdown = NoDropdown
	}
	return nil
}

// ToggleMobile flips the mobile panel between collapsed and expanded.
func (c *Controller) ToggleMobile() {
	c.state.MobileMenuOpen = !c.state.MobileMenuOpen
}

func (c *Controller) check(i int) error {
	if i < 0 || i >= c.size {
		return fmt.Errorf("%w: %d (entries: %d)", ErrIndexOutOfRange, i, c.size)
	}
	return nil
}
