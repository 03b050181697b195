package model

import "time"

// Group represents a group in the database. Players holds the member user IDs.
type Group struct {
	ID          int64
	Name        string
	Description string
	Schedule    string
	Location    string
	Chronic     string
	Master      int64
	Players     []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasPlayer reports whether userID is a member of the group.
func (g *Group) HasPlayer(userID int64) bool {
	for _, id := range g.Players {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateGroupRequest represents a group creation request.
// The master is always the authenticated user, never the payload.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Schedule    string `json:"schedule" validate:"required,max=255"`
	Location    string `json:"location" validate:"required,max=255"`
	Chronic     string `json:"chronic" validate:"required,max=255"`
}

// UpdateGroupRequest represents a partial group update. Nil fields are left untouched.
type UpdateGroupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Schedule    *string `json:"schedule" validate:"omitempty,min=1,max=255"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=255"`
	Chronic     *string `json:"chronic" validate:"omitempty,min=1,max=255"`
}

// GroupFilter narrows a group listing. Zero values mean "no filter".
type GroupFilter struct {
	User    *int64
	Text    string
	Page    int
	PerPage int
}

// Offset returns the row offset for the filter's page.
func (f GroupFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	Location    string    `json:"location"`
	Chronic     string    `json:"chronic"`
	Master      int64     `json:"master"`
	Players     []int64   `json:"players"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToResponse converts a stored group to its API form.
func (g *Group) ToResponse() GroupResponse {
	players := g.Players
	if players == nil {
		players = []int64{}
	}
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Schedule:    g.Schedule,
		Location:    g.Location,
		Chronic:     g.Chronic,
		Master:      g.Master,
		Players:     players,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// GroupEnvelope wraps a single group in the response body.
type GroupEnvelope struct {
	Group GroupResponse `json:"group"`
}

// PageMeta describes a paginated result.
type PageMeta struct {
	Total       int `json:"total"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	LastPage    int `json:"lastPage"`
	FirstPage   int `json:"firstPage"`
}

// NewPageMeta computes page bounds for total rows.
func NewPageMeta(total, page, perPage int) PageMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	return PageMeta{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    last,
		FirstPage:   1,
	}
}

// GroupPage is one page of a group listing.
type GroupPage struct {
	Meta PageMeta        `json:"meta"`
	Data []GroupResponse `json:"data"`
}

// GroupListResponse wraps a group page in the response body.
type GroupListResponse struct {
	Groups GroupPage `json:"groups"`
}
