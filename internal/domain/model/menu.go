// Package model contains domain models passed between layers.
package model

import "strings"

// DefaultImageID is stored when a menu item is created without an image.
const DefaultImageID = "default-menu.jpg"

// MenuItem is a single catalog entry (food or drink).
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageID     string  `json:"imageId"`
	// UserID identifies the creator; nil means the item is unowned.
	UserID *string `json:"userId"`
}

// Patch carries the replaceable fields of a MenuItem.
// Name, Description and Price always overwrite; ImageID only when non-empty.
type Patch struct {
	Name        string
	Description string
	Price       float64
	ImageID     string
}

// Apply returns a copy of m with p merged in. ID and UserID never change.
func (m MenuItem) Apply(p Patch) MenuItem {
	out := m
	out.Name = p.Name
	out.Description = p.Description
	out.Price = p.Price
	if strings.TrimSpace(p.ImageID) != "" {
		out.ImageID = p.ImageID
	}
	return out
}

// Owned reports whether the item has a creator recorded.
func (m MenuItem) Owned() bool {
	return m.UserID != nil
}

// ModifiableBy reports whether caller may update or delete the item.
// Unowned items are open to everyone.
func (m MenuItem) ModifiableBy(caller *string) bool {
	if !m.Owned() {
		return true
	}
	return caller != nil && *caller == *m.UserID
}

// Clone returns a deep copy so callers never share the owner pointer with the store.
func (m MenuItem) Clone() MenuItem {
	out := m
	if m.UserID != nil {
		uid := *m.UserID
		out.UserID = &uid
	}
	return out
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
