package dto

// PaginationQuery — общие параметры пагинации для списочных эндпоинтов.
// Значения нормализуются: page >= 1, limit в диапазоне 1..100,
// по умолчанию page=1, limit=10.
type PaginationQuery struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize приводит параметры к допустимым значениям.
func (p *PaginationQuery) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset возвращает смещение для среза данных.
func (p *PaginationQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginatedResponse — стандартная обертка списочного ответа.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// NewPaginatedResponse собирает ответ; total считается ДО среза страницы.
func NewPaginatedResponse(data interface{}, total int64, page, limit int) *PaginatedResponse {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
