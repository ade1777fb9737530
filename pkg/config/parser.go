package config

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// ConfigLoader defines the interface for loading configs
type ConfigLoader interface {
	Load(path string) (interface{}, error)
	Parse(data []byte) (interface{}, error)
}

type ValidationError struct {
	Field   string
	Message string
}

type Validator interface {
	Validate(config interface{}) []ValidationError
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// SessionLoader uses ConfigLoader for Session configurations
type SessionLoader struct {
	expander   VariableExpander
	validators []Validator
}

// NewSessionLoader creates a new SessionLoader with the given components
func NewSessionLoader(expander VariableExpander, validators ...Validator) *SessionLoader {
	return &SessionLoader{
		expander:   expander,
		validators: validators,
	}
}

// Load a new session config from YAML file
func (l *SessionLoader) Load(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.Parse(data)
}

// Parse parses a yaml config
func (l *SessionLoader) Parse(data []byte) (interface{}, error) {
	// Expand variables if an expander is configured
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	// Unmarshal YAML data into Session struct
	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate the session configuration
	var allErrors []ValidationError
	for _, validator := range l.validators {
		errors := validator.Validate(&session)
		allErrors = append(allErrors, errors...)
	}

	// Return any validation errors if there are any
	if len(allErrors) > 0 {
		return nil, fmt.Errorf("validation errors: %v", allErrors)
	}

	return &session, nil
}

// RequiredFieldValidator validates required fields for the session
type RequiredFieldValidator struct{}

// Validate checks that all required fields are present
func (v *RequiredFieldValidator) Validate(config interface{}) []ValidationError {
	session, ok := config.(*Session)
	if !ok {
		return []ValidationError{{Field: "config", Message: "not a Session"}}
	}

	var errors []ValidationError

	if session.Endpoint == "" {
		errors = append(errors, ValidationError{Field: "endpoint", Message: "is required"})
	}

	return errors
}

// AuthValidator validates authentication configuration
type AuthValidator struct{}

// Validate checks that the auth configuration matches its declared type
func (v *AuthValidator) Validate(config interface{}) []ValidationError {
	session, ok := config.(*Session)
	if !ok {
		return []ValidationError{{Field: "config", Message: "not a Session"}}
	}

	var errors []ValidationError

	// Skip validation if auth is not configured
	if session.Auth == nil {
		return errors
	}

	switch session.Auth.Type {
	case AuthTypeBasic:
		if session.Auth.Basic == nil {
			errors = append(errors, ValidationError{Field: "auth.basic", Message: "is required for basic auth"})
		} else if session.Auth.Basic.Username == "" {
			errors = append(errors, ValidationError{Field: "auth.basic.username", Message: "is required"})
		}
	case AuthTypeBearer:
		if session.Auth.Bearer == nil || session.Auth.Bearer.Token == "" {
			errors = append(errors, ValidationError{Field: "auth.bearer.token", Message: "is required for bearer auth"})
		}
	case AuthTypeToken:
		if session.Auth.Token == nil || session.Auth.Token.Token == "" {
			errors = append(errors, ValidationError{Field: "auth.token.token", Message: "is required for token auth"})
		}
	case AuthTypeAPIKey:
		if session.Auth.APIKey == nil {
			errors = append(errors, ValidationError{Field: "auth.api_key", Message: "is required for api_key auth"})
		} else {
			if session.Auth.APIKey.Value == "" {
				errors = append(errors, ValidationError{Field: "auth.api_key.value", Message: "is required"})
			}
			if session.Auth.APIKey.Header == "" && session.Auth.APIKey.QueryParam == "" {
				errors = append(errors, ValidationError{Field: "auth.api_key", Message: "either header or query_param is required"})
			}
		}
	case AuthTypeOAuth2:
		if session.Auth.OAuth2 == nil {
			errors = append(errors, ValidationError{Field: "auth.oauth2", Message: "is required for oauth2 auth"})
		} else {
			if session.Auth.OAuth2.TokenURL == "" {
				errors = append(errors, ValidationError{Field: "auth.oauth2.token_url", Message: "is required"})
			}
			if session.Auth.OAuth2.ClientID == "" {
				errors = append(errors, ValidationError{Field: "auth.oauth2.client_id", Message: "is required"})
			}
			if session.Auth.OAuth2.ClientSecret == "" {
				errors = append(errors, ValidationError{Field: "auth.oauth2.client_secret", Message: "is required"})
			}
		}
	default:
		errors = append(errors, ValidationError{Field: "auth.type", Message: fmt.Sprintf("unsupported auth type: %s", session.Auth.Type)})
	}

	return errors
}
