package blog

import (
	"time"

	"github.com/blogicum/backend/internal/domain/blog"
	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title      string     `json:"title" binding:"required,min=1,max=256"`
	Text       string     `json:"text" binding:"required"`
	PubDate    time.Time  `json:"pub_date"`
	CategoryID *uuid.UUID `json:"category_id"`
	LocationID *uuid.UUID `json:"location_id"`
	ImageKey   string     `json:"image_key"`
}

// UpdatePostRequest represents a request to update an existing post
type UpdatePostRequest struct {
	Title      string     `json:"title" binding:"required,min=1,max=256"`
	Text       string     `json:"text" binding:"required"`
	PubDate    time.Time  `json:"pub_date"`
	CategoryID *uuid.UUID `json:"category_id"`
	LocationID *uuid.UUID `json:"location_id"`
	ImageKey   *string    `json:"image_key"`
}

// PostResponse represents a post in responses
type PostResponse struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Text           string            `json:"text"`
	PubDate        time.Time         `json:"pub_date"`
	IsPublished    bool              `json:"is_published"`
	AuthorID       uuid.UUID         `json:"author_id"`
	AuthorUsername string            `json:"author_username"`
	AuthorName     string            `json:"author_name"`
	Category       *CategoryResponse `json:"category,omitempty"`
	Location       *LocationResponse `json:"location,omitempty"`
	ImageKey       string            `json:"image_key,omitempty"`
	ImageURL       string            `json:"image_url,omitempty"`
	CommentCount   int64             `json:"comment_count"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CategoryResponse represents a category in responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
}

// LocationResponse represents a location in responses
type LocationResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CommentResponse represents a comment in responses
type CommentResponse struct {
	ID             uuid.UUID `json:"id"`
	Text           string    `json:"text"`
	PostID         uuid.UUID `json:"post_id"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorName     string    `json:"author_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PostPage is one page of a post listing
type PostPage struct {
	Posts       []PostResponse `json:"posts"`
	Total       int64          `json:"total"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

// PostDetailResponse is a post together with its comments
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// ToPostResponse converts a domain post to a response
func ToPostResponse(p *blog.Post) PostResponse {
	resp := PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Text:         p.Text,
		PubDate:      p.PubDate,
		IsPublished:  p.IsPublished,
		AuthorID:     p.AuthorID,
		ImageKey:     p.ImageKey,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
	}

	if p.Author != nil {
		resp.AuthorUsername = p.Author.Username
		resp.AuthorName = p.Author.GetDisplayNameOrUsername()
	}

	if p.Category != nil {
		category := ToCategoryResponse(p.Category)
		resp.Category = &category
	}

	if p.Location != nil && p.Location.IsPublished {
		location := ToLocationResponse(p.Location)
		resp.Location = &location
	}

	return resp
}

// ToPostResponses converts a slice of domain posts
func ToPostResponses(posts []*blog.Post) []PostResponse {
	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, ToPostResponse(p))
	}
	return responses
}

// ToCategoryResponse converts a domain category to a response
func ToCategoryResponse(c *blog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Slug:        c.Slug,
	}
}

// ToLocationResponse converts a domain location to a response
func ToLocationResponse(l *blog.Location) LocationResponse {
	return LocationResponse{
		ID:   l.ID,
		Name: l.Name,
	}
}

// ToCommentResponse converts a domain comment to a response
func ToCommentResponse(c *blog.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	if c.Author != nil {
		resp.AuthorUsername = c.Author.Username
		resp.AuthorName = c.Author.GetDisplayNameOrUsername()
	}

	return resp
}

// ToCommentResponses converts a slice of domain comments
func ToCommentResponses(comments []*blog.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, ToCommentResponse(c))
	}
	return responses
}
