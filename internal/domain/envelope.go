package domain

// EnvelopeError is the error member of the upstream envelope
type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the fixed request/response contract of the upstream API
type Envelope[T any] struct {
	IsSuccess  bool           `json:"isSuccess"`
	Data       T              `json:"data"`
	Error      *EnvelopeError `json:"error"`
	Page       int            `json:"page,omitempty"`
	PageSize   int            `json:"pageSize,omitempty"`
	TotalCount int            `json:"totalCount,omitempty"`
	TotalPages int            `json:"totalPages,omitempty"`
}

// Page is a page of results with its paging metadata
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// ListQuery filters the post list endpoint
type ListQuery struct {
	Category *Category
	Search   string
	Tag      string
	Page     int
	PageSize int
}

// CreatePostRequest is the body of post create/update calls
type CreatePostRequest struct {
	Title    string    `json:"title" validate:"required,max=200"`
	Content  string    `json:"content" validate:"required"`
	Category *Category `json:"category"`
	Files    []Upload  `json:"-"`
}

// Upload is one file attached to a create/update request
type Upload struct {
	Name string
	Data []byte
}

// CommentRequest is the body of the comment endpoint; ParentCommentID 0 means top level
type CommentRequest struct {
	PostID          int64  `json:"postId" validate:"required,gt=0"`
	Content         string `json:"content" validate:"required,max=5000"`
	ParentCommentID int64  `json:"parentCommentId" validate:"gte=0"`
}
