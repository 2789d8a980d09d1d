package handler

// StoreRefRequest names a store in the body
type StoreRefRequest struct {
	StoreID uint `json:"store_id" binding:"required,gt=0"`
}

// CreateRoleRequest represents the request body for creating a role
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,required"`
}

// UpdateRoleRequest represents the request body for updating a role.
// Omitting permissions leaves them unchanged; an empty list clears them.
type UpdateRoleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=255"`
	Permissions *[]string `json:"permissions" binding:"omitempty,dive,required"`
}
