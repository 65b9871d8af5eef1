package comments

import (
	"time"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/relations"
)

// Comment represents a comment attached to a post
// OwnerID and PostID are fixed at creation; only content and likes change
type Comment struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner" db:"owner_id"`
	PostID    string    `json:"postId" db:"post_id"`
	Content   string    `json:"commentContent" db:"content"`
	WhoLike   []string  `json:"whoLike" db:"who_like"`
}

// Clone returns a deep copy of the comment
func (c *Comment) Clone() *Comment {
	cp := *c
	cp.WhoLike = relations.Clone(c.WhoLike)
	return &cp
}
