package oracle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "scout-cli"
	// keyName identifies the API credential within the service
	keyName = "oracle-api-key"
	// fallbackDir holds the credential file when no keyring is available
	fallbackDir = ".scout"
)

// EnvAPIKey overrides any stored credential when set
const EnvAPIKey = "SCOUT_ORACLE_API_KEY"

var fileBasedStorageCache *bool

// useFileBasedStorage falls back to a file in environments without a
// usable keyring (Codespaces, CI, headless servers).
func useFileBasedStorage() bool {
	if fileBasedStorageCache != nil {
		return *fileBasedStorageCache
	}
	if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
		result := true
		fileBasedStorageCache = &result
		return true
	}
	testKey := "_test_keyring_access_"
	err := keyring.Set(KeyringService, testKey, "test")
	result := err != nil
	fileBasedStorageCache = &result
	if !result {
		keyring.Delete(KeyringService, testKey)
	}
	return result
}

func keyFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, fallbackDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, keyName), nil
}

// APIKey resolves the credential: environment first, then keyring, then
// the fallback file. Empty string means no credential anywhere.
func APIKey() string {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key
	}
	if useFileBasedStorage() {
		path, err := keyFilePath()
		if err != nil {
			return ""
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	key, err := keyring.Get(KeyringService, keyName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(key)
}

// SaveAPIKey stores the credential in the keyring, or the fallback file
// when no keyring is usable.
func SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if useFileBasedStorage() {
		path, err := keyFilePath()
		if err != nil {
			return fmt.Errorf("failed to resolve key path: %w", err)
		}
		if err := os.WriteFile(path, []byte(key), 0o600); err != nil {
			return fmt.Errorf("failed to save key file: %w", err)
		}
		return nil
	}
	if err := keyring.Set(KeyringService, keyName, key); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the stored credential from both stores.
func DeleteAPIKey() error {
	var fileErr error
	if path, err := keyFilePath(); err == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fileErr = err
		}
	}
	if err := keyring.Delete(KeyringService, keyName); err != nil && err != keyring.ErrNotFound {
		return err
	}
	return fileErr
}
