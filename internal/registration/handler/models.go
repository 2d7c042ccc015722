package handler

import "agora/internal/registration/service"

// StartRequest opens a registration for a named flow.
type StartRequest struct {
	Flow string `json:"flow"`
}

type StartResponse struct {
	Token        string       `json:"token"`
	ExpiresIn    int64        `json:"expires_in"`
	Registration service.View `json:"registration"`
}

// SetFieldRequest edits one field. Scalar fields use Value; capabilities use Values.
type SetFieldRequest struct {
	Field  string   `json:"field"`
	Value  *string  `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

type FieldResponse struct {
	Registration service.View        `json:"registration"`
	Result       service.FieldResult `json:"result"`
}
