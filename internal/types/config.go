package types

type RunMode string

const (
	ModeLocal      RunMode = "local"
	ModeProduction RunMode = "production"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// CatalogSource selects where the billing catalog is read from at startup
type CatalogSource string

const (
	CatalogSourceEmbedded CatalogSource = "embedded"
	CatalogSourceDir      CatalogSource = "dir"
)
