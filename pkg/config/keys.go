package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"lectern-hq/polaris/pkg/keypool"
	"lectern-hq/polaris/pkg/limits/ratelimit"
)

const (
	defaultRPM = 60

	// legacyWeight is the weight given to the single key of the legacy
	// config shape.
	legacyWeight = 3
)

// KeyFile is the JSON credential file. Two shapes are supported: the
// multi-key shape (Defaults + Keys) and the legacy single-key shape
// (LLMKey plus a base URL hidden in one of the settings sections).
type KeyFile struct {
	Defaults KeyDefaults `json:"defaults"`
	Keys     []KeyEntry  `json:"keys"`

	// Legacy single-key shape
	LLMKey        string          `json:"llm_key"`
	LLMSettings   *LegacySettings `json:"llm_settings"`
	DebugSettings *LegacySettings `json:"debug_settings"`
	PptxSettings  *LegacySettings `json:"pptx_settings"`
}

// KeyDefaults supply rate settings for keys that omit their own.
type KeyDefaults struct {
	// RPM is the default requests-per-minute budget
	RPM int `json:"rpm"`

	// Capacity is the default bucket ceiling (defaults to RPM)
	Capacity int `json:"capacity"`
}

// KeyEntry is one credential in the multi-key shape.
type KeyEntry struct {
	Key      string `json:"key"`
	Vendor   string `json:"vendor"`
	Weight   int    `json:"weight"`
	RPM      int    `json:"rpm"`
	Capacity int    `json:"capacity"`
	BaseURL  string `json:"base_url"`
}

// LegacySettings is a settings section of the legacy shape; only the base
// URL matters here.
type LegacySettings struct {
	BaseURL string `json:"base_url"`
}

// LoadKeyFile reads and parses the credential file. A missing file returns
// an empty KeyFile, which builds an empty pool.
func LoadKeyFile(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &KeyFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file %q: %w", path, err)
	}

	var file KeyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %q: %w", path, err)
	}

	return &file, nil
}

// BuildCredentials turns a parsed credential file into pool credentials.
//
// Multi-key entries use their own rpm/capacity/weight, falling back to the
// file defaults (rpm 60, capacity = rpm). The legacy shape yields exactly
// one openai credential with weight 3 and default rate settings; its base
// URL is taken from llm_settings, debug_settings, or pptx_settings, in
// that order.
func BuildCredentials(file *KeyFile) []*keypool.Credential {
	defaultRPMValue := file.Defaults.RPM
	if defaultRPMValue <= 0 {
		defaultRPMValue = defaultRPM
	}
	defaultCapacity := file.Defaults.Capacity
	if defaultCapacity <= 0 {
		defaultCapacity = defaultRPMValue
	}

	creds := make([]*keypool.Credential, 0, len(file.Keys))
	for _, entry := range file.Keys {
		rpm := entry.RPM
		if rpm <= 0 {
			rpm = defaultRPMValue
		}
		capacity := entry.Capacity
		if capacity <= 0 {
			capacity = rpm
		}

		bucket := ratelimit.NewTokenBucket(float64(capacity), float64(rpm)/60.0)
		cred := keypool.NewCredential(entry.Key, entry.Vendor, entry.Weight, bucket)
		cred.Metadata.BaseURL = entry.BaseURL
		creds = append(creds, cred)
	}

	if len(creds) == 0 && file.LLMKey != "" {
		bucket := ratelimit.NewTokenBucket(float64(defaultCapacity), float64(defaultRPMValue)/60.0)
		cred := keypool.NewCredential(file.LLMKey, "openai", legacyWeight, bucket)
		for _, section := range []*LegacySettings{file.LLMSettings, file.DebugSettings, file.PptxSettings} {
			if section != nil && section.BaseURL != "" {
				cred.Metadata.BaseURL = section.BaseURL
				break
			}
		}
		creds = append(creds, cred)
	}

	return creds
}

// LoadKeyPool builds a credential pool from the credential file. A missing
// file yields an empty pool whose HasLiveCredential() is false, so callers
// fail fast instead of dispatching into nothing.
func LoadKeyPool(path string, seed int64) (*keypool.Pool, error) {
	file, err := LoadKeyFile(path)
	if err != nil {
		return nil, err
	}

	pool := keypool.New(BuildCredentials(file))
	if seed != 0 {
		pool.WithRand(rand.New(rand.NewSource(seed)))
	}
	return pool, nil
}
