package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// LogFilePermissions is the permission for the command log (rw-r--r--)
	LogFilePermissions = 0o644
)

// Timeout constants
const (
	// DefaultGenerateTimeout bounds the completion request
	DefaultGenerateTimeout = 30 * time.Second
	// DefaultSyntaxTimeout bounds the parse-only shell invocation
	DefaultSyntaxTimeout = 5 * time.Second
	// DefaultExecuteTimeout bounds the generated command itself
	DefaultExecuteTimeout = 5 * time.Minute
)

// Model configuration constants
const (
	// DefaultMaxTokens is the completion budget sent with every request
	DefaultMaxTokens = 1000
	// DefaultCredentialEnv holds the completion API key
	DefaultCredentialEnv = "GROQ_API_KEY"
	// DefaultEndpoint is Groq's OpenAI-compatible chat completions URL
	DefaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"
)

// Command log constants
const (
	// LogHeader is the first line of a freshly created command log
	LogHeader = "AIHelp Command Log"
	// LogTimestampFormat is the timestamp layout of each log line
	LogTimestampFormat = "2006-01-02 15:04:05"
)

// InsufficientInformationSentinel is the literal reply the model is told to
// send when a request is too ambiguous to translate.
const InsufficientInformationSentinel = "Error: More information required."

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)
