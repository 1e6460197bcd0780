package googlesheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ServiceAccountKey represents the structure of a service account JSON key file
type ServiceAccountKey struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccountJSON parses service account JSON data. Only the client
// email and the private key are required.
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account JSON: %w", err)
	}

	if key.Type != "" && key.Type != "service_account" {
		return nil, fmt.Errorf("invalid key type: %s (expected: service_account)", key.Type)
	}

	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, fmt.Errorf("missing client_email or private_key in service account key")
	}

	return &key, nil
}

// LoadServiceAccountFile reads and parses a service account JSON key file.
// An empty path falls back to GOOGLE_APPLICATION_CREDENTIALS.
func LoadServiceAccountFile(path string) (*ServiceAccountKey, error) {
	if path == "" {
		path = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if path == "" {
			return nil, fmt.Errorf("no JSON key file path provided and GOOGLE_APPLICATION_CREDENTIALS not set")
		}
	}

	jsonData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON key file: %w", err)
	}

	return ParseServiceAccountJSON(jsonData)
}

// TokenSource creates a JWT token source for the spreadsheets scope
func (k *ServiceAccountKey) TokenSource(ctx context.Context) oauth2.TokenSource {
	tokenURL := k.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}

	config := &jwt.Config{
		Email:        k.ClientEmail,
		PrivateKey:   []byte(k.PrivateKey),
		PrivateKeyID: k.PrivateKeyID,
		Scopes:       []string{sheets.SpreadsheetsScope},
		TokenURL:     tokenURL,
	}

	return config.TokenSource(ctx)
}

// NewWithServiceAccountKey creates a new SheetsAdaptor authenticated as a service account
func NewWithServiceAccountKey(ctx context.Context, config Config, key *ServiceAccountKey) (*SheetsAdaptor, error) {
	if key == nil {
		return nil, fmt.Errorf("service account key is required")
	}

	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(key.TokenSource(ctx)))
}

// NewWithJSONKeyFile creates a new SheetsAdaptor using a JSON key file
func NewWithJSONKeyFile(ctx context.Context, config Config, jsonPath string) (*SheetsAdaptor, error) {
	key, err := LoadServiceAccountFile(jsonPath)
	if err != nil {
		return nil, err
	}

	return NewWithServiceAccountKey(ctx, config, key)
}

// NewWithDefaultCredentials creates a new SheetsAdaptor using Application Default Credentials
func NewWithDefaultCredentials(ctx context.Context, config Config) (*SheetsAdaptor, error) {
	tokenSource, err := google.DefaultTokenSource(ctx, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default token source: %w", err)
	}

	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(tokenSource))
}
