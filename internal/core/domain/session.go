package domain

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "password123"
)

// Durable storage keys.
const (
	KeyContactNumber = "whatsappNumber"
	KeyAdminUsername = "adminUsername"
	KeyAdminPassword = "adminPassword"
)

// Credentials are compared by exact match and kept as plain text.
type Credentials struct {
	Username string
	Password string
}

func DefaultCredentials() Credentials {
	return Credentials{
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
	}
}

func (c Credentials) Match(username, password string) bool {
	return c.Username == username && c.Password == password
}
