package request_models

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type ExpenseRequest struct {
	Item     string  `json:"item" binding:"required,max=200"`
	Amount   int64   `json:"amount" binding:"min=0"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	SpotID   *string `json:"spot_id" binding:"omitempty,uuid"`
}

type UpdateExpenseRequest struct {
	Item     *string `json:"item" binding:"omitempty,max=200"`
	Amount   *int64  `json:"amount" binding:"omitempty,min=0"`
	Category *string `json:"category"`
	Date     *string `json:"date"`
}
