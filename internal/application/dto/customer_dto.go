package dto

// CreateCustomerRequest alta de cliente.
type CreateCustomerRequest struct {
	RUC   string `json:"ruc"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateCustomerRequest edición parcial de cliente.
type UpdateCustomerRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Active *bool   `json:"active"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID     string `json:"id"`
	RUC    string `json:"ruc"`
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Active bool   `json:"active"`
}

// CustomerMatch resultado de la búsqueda por RUC (local, registro nacional
// o consumidor final de respaldo).
type CustomerMatch struct {
	Doc    string `json:"doc"` // documento/RUC sin dígito verificador
	RUC    string `json:"ruc"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Source string `json:"source"` // local, registro, fallback
}
