package config

// ServerConfig holds the HTTP listener of the serve command.
type ServerConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on schedule requests.
	Token string `json:"token"`
}

// SetDefaults applies the default listen address.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}
