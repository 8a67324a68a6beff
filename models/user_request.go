package models

// UserRequest is one entry of a user's recent activity.
type UserRequest struct {
	Method    string `json:"method"`
	Route     string `json:"route"`
	Operation string `json:"operation,omitempty"`
}
