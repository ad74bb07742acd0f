package common

// ListResponse wraps list payloads so fields can be added without breaking clients
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
