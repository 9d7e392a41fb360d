package dto

// CreateGroupRequest — создание группы абонентов
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
}

// UpdateGroupRequest — обновление группы; имя обязательно
type UpdateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" validate:"omitempty,max=32"`
}

// AddGroupMemberRequest — добавление абонента в группу
type AddGroupMemberRequest struct {
	SubscriberID string `json:"subscriber_id" validate:"required,uuid4"`
}
