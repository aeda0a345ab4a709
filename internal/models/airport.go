// Package models holds the wire and domain types exchanged with the
// flight tracking backend. Field names follow the backend's JSON contract.
package models

// Airport is immutable reference data, fetched once per session.
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country"`
}
