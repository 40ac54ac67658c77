package actionitem

// CreateRequest is the payload for creating a manual action item
type CreateRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	Assignee string `json:"assignee" validate:"omitempty,max=255"`
	DueDate  string `json:"due_date" validate:"omitempty,dateonly"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateRequest is the payload for updating an action item. Nil fields are
// left untouched.
type UpdateRequest struct {
	Content  *string `json:"content" validate:"omitempty,min=1,max=2000"`
	Assignee *string `json:"assignee" validate:"omitempty,max=255"`
	DueDate  *string `json:"due_date" validate:"omitempty,dateonly"`
	Status   *string `json:"status" validate:"omitempty,oneof=pending completed"`
	Priority *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}
