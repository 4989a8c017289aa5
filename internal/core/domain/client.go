// internal/core/domain/client.go
package domain

// Client is a customer record. The sales ledger only ever reads clients;
// all mutation goes through the client CRUD service.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Image   string `json:"image,omitempty"`
}

// Validate performs domain validation on the client.
func (c *Client) Validate() error {
	if c.Name == "" {
		return &ValidationError{Reason: "client name is required"}
	}
	return nil
}
