// internal/core/domain/user.go
package domain

// User is a store account. PasswordHash is a bcrypt hash; the plain password
// never leaves the auth service.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	StoreName    string `json:"store_name"`
	StoreImage   string `json:"store_image,omitempty"`
}
