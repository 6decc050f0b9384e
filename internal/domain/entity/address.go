package entity

import "strings"

// ShippingAddress dirección de envío recolectada por el colaborador externo.
type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// IsComplete exige los cinco campos no vacíos antes de permitir el checkout.
func (a ShippingAddress) IsComplete() bool {
	for _, field := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
