// models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Like is a single entry in a post's like set. A user appears at most
// once; the toggle endpoint enforces that.
type Like struct {
	User primitive.ObjectID `json:"user" bson:"user"`
}

// Comment is an embedded subdocument of Post
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Post model. Comments and likes live inside the post document, so
// deleting a post removes the whole aggregate in one operation.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Excerpt       string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Category      string             `json:"category" bson:"category"`
	Status        string             `json:"status" bson:"status"`
	Tags          []string           `json:"tags" bson:"tags"`
	FeaturedImage string             `json:"featuredImage,omitempty" bson:"featuredImage,omitempty"`
	Author        primitive.ObjectID `json:"author" bson:"author"`
	Views         int64              `json:"views" bson:"views"`
	Likes         []Like             `json:"likes" bson:"likes"`
	Comments      []Comment          `json:"comments" bson:"comments"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreatePostRequest model for creating a new post. Tags arrive as a
// comma-joined string and are split server-side.
type CreatePostRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Content       string `json:"content" validate:"required,min=1,max=10000"`
	Excerpt       string `json:"excerpt" validate:"omitempty,max=300"`
	Category      string `json:"category" validate:"required,min=1,max=50"`
	Status        string `json:"status" validate:"omitempty,oneof=draft published archived"`
	Tags          string `json:"tags"`
	FeaturedImage string `json:"featuredImage" validate:"omitempty,max=2048"`
}

// UpdatePostRequest model for partial post updates. Nil means "leave
// the field unchanged"; Tags, when present, replaces the whole set.
type UpdatePostRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content       *string `json:"content" validate:"omitempty,min=1,max=10000"`
	Excerpt       *string `json:"excerpt" validate:"omitempty,max=300"`
	Category      *string `json:"category" validate:"omitempty,min=1,max=50"`
	Status        *string `json:"status" validate:"omitempty,oneof=draft published archived"`
	Tags          *string `json:"tags"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,max=2048"`
}

// CommentRequest model for adding a comment
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CommentView is a comment with its user resolved to display fields
type CommentView struct {
	ID        primitive.ObjectID `json:"id"`
	User      UserSummary        `json:"user"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
}

// LikeView is a like entry with its user resolved to display fields
type LikeView struct {
	User UserSummary `json:"user"`
}

// PostView is the response shape for a post: author and subdocument
// users resolved, like entries reduced to a count unless the caller
// asked for the full set.
type PostView struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	Excerpt       string             `json:"excerpt,omitempty"`
	Category      string             `json:"category"`
	Status        string             `json:"status"`
	Tags          []string           `json:"tags"`
	FeaturedImage string             `json:"featuredImage,omitempty"`
	Author        UserSummary        `json:"author"`
	Views         int64              `json:"views"`
	LikeCount     int                `json:"likeCount"`
	Likes         []LikeView         `json:"likes,omitempty"`
	Comments      []CommentView      `json:"comments"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Pagination metadata returned alongside post listings
type Pagination struct {
	Current int   `json:"current"`
	Pages   int64 `json:"pages"`
	Total   int64 `json:"total"`
}

// PostListData is the data payload of GET /api/posts
type PostListData struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// LikeToggleData is the data payload of the like toggle endpoint
type LikeToggleData struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}
