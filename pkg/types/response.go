package types

type SuccessEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// FailureEnvelope is rendered for every failed request; Errors is always an object.
type FailureEnvelope struct {
	Message string         `json:"message"`
	Errors  map[string]any `json:"errors"`
	Status  int            `json:"status"`
}

type PaginationMeta struct {
	Page     int `json:"page"`
	PerPage  int `json:"perPage"`
	Total    int `json:"total"`
	LastPage int `json:"lastPage"`
}

type PaginatedData[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}
