package employee

import "time"

type EmployeeResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
