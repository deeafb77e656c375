package recent

import "context"

// Surface binds a Cache to one user so the favorite reconciler can patch it
// like any other view.
type Surface struct {
	Cache  *Cache
	UserID string
}

// PatchLiked updates the entry if present. Store failures are reported and
// leave the list unchanged.
func (s Surface) PatchLiked(ctx context.Context, itemID int64, liked bool) error {
	if s.Cache == nil {
		return nil
	}
	_, err := s.Cache.PatchLiked(ctx, s.UserID, itemID, liked)
	return err
}
