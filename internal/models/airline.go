package models

// Airline is immutable reference data, fetched once per session.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
