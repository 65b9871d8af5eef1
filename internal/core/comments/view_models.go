package comments

import (
	"time"

	"github.com/khaledtf19/Lposts2-Backend/internal/core/users"
)

// CommentView is a comment with its owner resolved to the public projection
// Returned from CreateComment; no owner field beyond id, name and avatar is exposed
type CommentView struct {
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Owner     users.OwnerView `json:"owner"`
	ID        string          `json:"id"`
	PostID    string          `json:"postId"`
	Content   string          `json:"commentContent"`
	WhoLike   []string        `json:"whoLike"`
}

// NewCommentView builds a view from a comment and its owner projection
func NewCommentView(c *Comment, owner users.OwnerView) *CommentView {
	whoLike := c.WhoLike
	if whoLike == nil {
		whoLike = []string{}
	}
	return &CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		WhoLike:   whoLike,
		Owner:     owner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// LikesView is the like-toggle response: the comment's current likers
type LikesView struct {
	WhoLike []string `json:"whoLike"`
}
