package models

// User is the backend's record of an identity, keyed solely by email.
type User struct {
	Email                      string `json:"email"`
	EnableNotificationsSetting bool   `json:"enableNotificationsSetting"`
}
