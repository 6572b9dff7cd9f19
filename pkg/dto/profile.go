package dto

import "time"

type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	Degraded  bool      `json:"degraded,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}
