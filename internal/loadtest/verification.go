package loadtest

import "fmt"

// verifyCreated checks that every created item got a distinct id and is listed
// unchanged with the expected owner.
func verifyCreated(created, listed []MenuItem, owner string) error {
	byID := make(map[string]MenuItem, len(listed))
	for _, it := range listed {
		if _, dup := byID[it.ID]; dup {
			return fmt.Errorf("%w: id %s listed twice", ErrInconsistent, it.ID)
		}
		byID[it.ID] = it
	}

	seen := make(map[string]struct{}, len(created))
	for _, c := range created {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: id %s assigned twice", ErrInconsistent, c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.UserID == nil || *c.UserID != owner {
			return fmt.Errorf("%w: item %s lost its owner", ErrInconsistent, c.ID)
		}
		got, ok := byID[c.ID]
		if !ok {
			return fmt.Errorf("%w: item %s missing from list", ErrInconsistent, c.ID)
		}
		if got.Name != c.Name || got.Description != c.Description || got.Price != c.Price || got.ImageID != c.ImageID {
			return fmt.Errorf("%w: item %s differs from its create response", ErrInconsistent, c.ID)
		}
	}
	return nil
}

// verifyDeleted checks that none of the deleted items is still listed.
func verifyDeleted(deleted, listed []MenuItem) error {
	gone := make(map[string]struct{}, len(deleted))
	for _, d := range deleted {
		gone[d.ID] = struct{}{}
	}
	for _, it := range listed {
		if _, ok := gone[it.ID]; ok {
			return fmt.Errorf("%w: item %s still listed after delete", ErrInconsistent, it.ID)
		}
	}
	return nil
}
