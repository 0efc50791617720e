// Package access decides what a caller may see of the course.
package access

import "github.com/monuchauhan/nios-elearning/internal/catalog"

// Viewer is the caller as the gate sees it. The zero value is an anonymous
// visitor.
type Viewer struct {
	UserID       string
	HasPurchased bool
}

// Anonymous reports whether no user is attached.
func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}

// HasAccess is the single entitlement rule: free items are open to everyone,
// paid items only to buyers.
func HasAccess(isFree, hasPurchased bool) bool {
	return isFree || hasPurchased
}

// CanOpen applies HasAccess to a chapter.
func (v Viewer) CanOpen(ch catalog.Chapter) bool {
	return HasAccess(ch.IsFree, v.HasPurchased)
}

// Teaser is the metadata shown for a chapter behind the paywall.
type Teaser struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsFree      bool   `json:"isFree"`
	IsLocked    bool   `json:"isLocked"`
}

// TeaserOf builds the locked view of ch.
func TeaserOf(ch catalog.Chapter) Teaser {
	return Teaser{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		Order:       ch.Order,
		IsFree:      ch.IsFree,
		IsLocked:    true,
	}
}

// Details renders the teaser as error details for a denied call.
func (t Teaser) Details() map[string]any {
	return map[string]any{"chapter": t}
}
