package comments

// CreateCommentRequest contains the body for creating or updating a comment
type CreateCommentRequest struct {
	Content string `json:"commentContent"`
}
