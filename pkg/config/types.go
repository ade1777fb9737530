package config

// Session represents the full config for one GraphQL session
type Session struct {
	Name     string            `yaml:"name,omitempty"`    // Optional identifier
	Endpoint string            `yaml:"endpoint"`          // Required GraphQL endpoint URL
	Headers  map[string]string `yaml:"headers,omitempty"` // Headers sent on every request
	Auth     *Auth             `yaml:"auth,omitempty"`    // Optional authentication
}

// Auth defines auth methods.
type Auth struct {
	Type   AuthType    `yaml:"type"`              // Required authentication type
	Basic  *BasicAuth  `yaml:"basic,omitempty"`   // Basic authentication
	Bearer *BearerAuth `yaml:"bearer,omitempty"`  // Bearer token authentication
	Token  *TokenAuth  `yaml:"token,omitempty"`   // Token scheme authentication
	APIKey *APIKeyAuth `yaml:"api_key,omitempty"` // API key authentication
	OAuth2 *OAuth2Auth `yaml:"oauth2,omitempty"`  // OAuth2 authentication
}

// AuthType defines current supported authentication types
type AuthType string

const (
	AuthTypeBasic  AuthType = "basic"
	AuthTypeBearer AuthType = "bearer"
	AuthTypeToken  AuthType = "token"
	AuthTypeAPIKey AuthType = "api_key"
	AuthTypeOAuth2 AuthType = "oauth2"
)

// BasicAuth contains auth credentials for the endpoint
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// BearerAuth contains the bearer token
type BearerAuth struct {
	Token string `yaml:"token"`
}

// TokenAuth contains the token for "Authorization: Token ..." endpoints
type TokenAuth struct {
	Token string `yaml:"token"`
}

// APIKeyAuth contains API key details
type APIKeyAuth struct {
	Header     string `yaml:"header,omitempty"`      // Header name
	QueryParam string `yaml:"query_param,omitempty"` // Query parameter name
	Value      string `yaml:"value"`                 // API key value
}

// OAuth2Auth contains OAuth2 auth details
type OAuth2Auth struct {
	TokenURL      string            `yaml:"token_url"`
	ClientID      string            `yaml:"client_id"`
	ClientSecret  string            `yaml:"client_secret"`
	Scope         string            `yaml:"scope,omitempty"`
	ExtraParams   map[string]string `yaml:"extra_params,omitempty"`
	RefreshBefore int               `yaml:"refresh_before,omitempty"` // Seconds before expiry to refresh
}
