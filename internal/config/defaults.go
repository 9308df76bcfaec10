package config

const (
	defaultConfigPath     = "~/.config/reposter/config.toml"
	defaultDataDir        = "~/.local/share/reposter"
	defaultLogDir         = "~/.local/share/reposter/logs"
	defaultDiagnosticsDir = "~/.local/share/reposter/diagnostics"
	defaultOutputDir      = "out"
	defaultStoreBackend   = StoreSQLite
	defaultValkeyAddr     = "127.0.0.1:6379"
	defaultDiagBackend    = DiagnosticsDir
	defaultMinIOBucket    = "reposter-diagnostics"
	defaultPartition      = "default"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreValkey = "valkey"
)

// Diagnostics backends.
const (
	DiagnosticsDir   = "dir"
	DiagnosticsMinIO = "minio"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:        defaultDataDir,
			LogDir:         defaultLogDir,
			DiagnosticsDir: defaultDiagnosticsDir,
			OutputDir:      defaultOutputDir,
		},
		Store: Store{
			Backend:    defaultStoreBackend,
			ValkeyAddr: defaultValkeyAddr,
		},
		Diagnostics: Diagnostics{
			Backend:     defaultDiagBackend,
			MinIOBucket: defaultMinIOBucket,
		},
		Pipeline: Pipeline{
			StopOnError: true,
			Partition:   defaultPartition,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
