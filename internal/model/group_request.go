package model

import "time"

// GroupRequestStatus is the lifecycle state of a join request.
// Rejected requests are deleted, so there is no terminal rejected state.
type GroupRequestStatus string

const (
	GroupRequestPending  GroupRequestStatus = "PENDING"
	GroupRequestAccepted GroupRequestStatus = "ACCEPTED"
)

// GroupRequest represents a user's request to join a group.
type GroupRequest struct {
	ID        int64
	UserID    int64
	GroupID   int64
	Status    GroupRequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupRequestDetail is a request joined with its group and requester.
type GroupRequestDetail struct {
	GroupRequest
	GroupName   string
	GroupMaster int64
	Username    string
}

// GroupRequestGroup is the group summary embedded in a listed request.
type GroupRequestGroup struct {
	Name   string `json:"name"`
	Master int64  `json:"master"`
}

// GroupRequestUser is the requester summary embedded in a listed request.
type GroupRequestUser struct {
	Username string `json:"username"`
}

// GroupRequestResponse represents a join request in API responses.
type GroupRequestResponse struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"userId"`
	GroupID   int64              `json:"groupId"`
	Status    GroupRequestStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Group     *GroupRequestGroup `json:"group,omitempty"`
	User      *GroupRequestUser  `json:"user,omitempty"`
}

// ToResponse converts a stored request to its API form.
func (r *GroupRequest) ToResponse() GroupRequestResponse {
	return GroupRequestResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		GroupID:   r.GroupID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToResponse converts a joined request, including group and user summaries.
func (d *GroupRequestDetail) ToResponse() GroupRequestResponse {
	resp := d.GroupRequest.ToResponse()
	resp.Group = &GroupRequestGroup{Name: d.GroupName, Master: d.GroupMaster}
	resp.User = &GroupRequestUser{Username: d.Username}
	return resp
}

// GroupRequestEnvelope wraps a single request in the response body.
type GroupRequestEnvelope struct {
	GroupRequest GroupRequestResponse `json:"groupRequest"`
}

// GroupRequestListResponse wraps a request list in the response body.
type GroupRequestListResponse struct {
	GroupRequests []GroupRequestResponse `json:"groupRequests"`
}
