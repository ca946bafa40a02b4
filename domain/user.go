package domain

type User struct {
	ID           string `json:"_id,omitempty"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PharmacyName string `json:"pharmacyName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	LastLogin    string `json:"lastLogin,omitempty"`
}
