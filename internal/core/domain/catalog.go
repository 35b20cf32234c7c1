package domain

// Service is a sellable catalog entry used as a template for quote items.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ServiceFields carries the caller-supplied part of a Service.
type ServiceFields struct {
	Name        string
	Description string
	Price       float64
}
