package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a store account. StoreCode doubles as the login name.
type User struct {
	StoreCode string `json:"storeCode"`
	StoreName string `json:"storeName"`
	Email     string `json:"email"`
	Role      string `json:"role"` // user | admin
}
