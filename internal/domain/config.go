package domain

// DefaultModelID is used until the user saves another default.
const DefaultModelID = "llama-3.1-8b-instant"

// Config mirrors ~/.aihelp_config.json.
type Config struct {
	DefaultModel string `json:"default_model"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{DefaultModel: DefaultModelID}
}
