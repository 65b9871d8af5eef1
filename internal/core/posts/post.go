package posts

import (
	"time"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
)

// Post represents a post in the social graph
// Likes is the cached cardinality of WhoLike and moves in lock-step with it.
// Comments is a reference list of comment ids in creation order.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner" db:"owner_id"`
	Content   string    `json:"postContent" db:"content"`
	WhoLike   []string  `json:"whoLike" db:"who_like"`
	Comments  []string  `json:"comments" db:"comments"`
	Likes     int       `json:"likes" db:"likes"`
}

// Clone returns a deep copy so reference lists are never shared between snapshots
func (p *Post) Clone() *Post {
	c := *p
	c.WhoLike = relations.Clone(p.WhoLike)
	c.Comments = relations.Clone(p.Comments)
	return &c
}

// CreatePostRequest represents the HTTP input for creating or updating a post
type CreatePostRequest struct {
	Content string `json:"postContent"`
}
