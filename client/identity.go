package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"notewall/internal/card/model"

	"github.com/google/uuid"
)

// DefaultIdentityPath is where the per-profile user id lives, the file-system
// analogue of browser local storage.
func DefaultIdentityPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "notewall", "user_id"), nil
}

// GetOrCreateUserID returns the opaque identifier stored at path, generating
// and persisting a fresh one on first use. The id is stable across restarts
// and attributes ownership of the cards this client creates.
func GetOrCreateUserID(path string) (string, error) {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}

// FetchIdentityToken asks the backend to sign the client-generated user id.
// The token identifies the client on subsequent calls; it grants nothing.
func FetchIdentityToken(ctx context.Context, baseURL, userID string) (string, error) {
	payload, err := json.Marshal(model.IdentityRequest{UserID: userID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(baseURL, "/")+"/api/identity", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		message := strings.TrimSpace(string(raw))
		if message == "" {
			message = resp.Status
		}
		return "", errors.New(message)
	}

	var identity model.IdentityResponse
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return "", err
	}
	return identity.Token, nil
}
