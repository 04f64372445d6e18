package fs

import (
	"os"
)

// EnvProvider provides environment variable access.
type EnvProvider interface {
	// Get returns the value of the environment variable named by the key.
	Get(key string) string
}

// OSEnvProvider reads from the actual environment using os.Getenv.
type OSEnvProvider struct{}

// NewEnvProvider creates a new OSEnvProvider.
func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

// Get returns the value of the environment variable named by the key.
func (e *OSEnvProvider) Get(key string) string {
	return os.Getenv(key)
}

// MapEnvProvider serves variables from a fixed map. Useful where the process
// environment must not leak into a run, such as parallel tests.
type MapEnvProvider map[string]string

// Get returns the value stored for key, or "" when absent.
func (m MapEnvProvider) Get(key string) string {
	return m[key]
}
