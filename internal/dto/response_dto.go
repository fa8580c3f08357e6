package dto

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Message string            `json:"message"`
	Details []string          `json:"details,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"` // field-keyed validation errors
}

type MessageResponse struct {
	Message string `json:"message"`
}
