// Package config holds the root Config for acsdex and the Option
// functions that build it. Config is assembled by internal/io/config
// from a file, environment variables, and CLI flags; this package knows
// nothing about any of those sources.
package config

// ParserConfig points at the two taxonomy documents the classifier is
// built from (spec §4.2).
type ParserConfig struct {
	DiagnosesFile  string `mapstructure:"diagnoses_file" yaml:"diagnoses_file"`
	ProceduresFile string `mapstructure:"procedures_file" yaml:"procedures_file"`
}

// CodeGroupsConfig names the taxonomy groups that make up each metagroup
// the index-event pass is parameterised over (spec §4.11).
type CodeGroupsConfig struct {
	ACS          []string `mapstructure:"acs" yaml:"acs"`
	PCI          []string `mapstructure:"pci" yaml:"pci"`
	STEMI        []string `mapstructure:"stemi" yaml:"stemi"`
	CardiacDeath []string `mapstructure:"cardiac_death" yaml:"cardiac_death"`
}

// LogConfig selects the slog handler pkg/logger builds.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseConfig holds connection parameters for the Postgres row source
// internal/io/database opens (spec §6's episode-row view). It carries no
// schema or migration settings: this repo only ever reads that view.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// View names the episode-row view or table internal/io/database
	// queries from. sqlitebuf reuses the same field for its own fixture
	// table.
	View string `mapstructure:"view" yaml:"view"`
}

// Config is the root configuration of an acsdex run.
type Config struct {
	Parser        ParserConfig     `mapstructure:"parser" yaml:"parser"`
	CodeGroups    CodeGroupsConfig `mapstructure:"code_groups" yaml:"code_groups"`
	Database      DatabaseConfig   `mapstructure:"database" yaml:"database"`
	WindowSeconds int              `mapstructure:"window_seconds" yaml:"window_seconds"`
	SaveRecords   bool             `mapstructure:"save_records" yaml:"save_records"`
	Log           LogConfig        `mapstructure:"log" yaml:"log"`
	JobsNumber    int              `mapstructure:"jobs_number" yaml:"jobs_number"`
}

// defaultWindowSeconds is 365 days (spec §6: "window_seconds (int,
// default 31,536,000 ≈ 365 days)").
const defaultWindowSeconds = 365 * 24 * 60 * 60

// New returns an always-valid default Config, then applies opts in
// order. An Option that rejects its input warns (via gn.Warn, see
// options.go) and leaves the field at its prior value rather than
// failing construction.
func New(opts ...Option) Config {
	cfg := Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "acsdex",
			SSLMode:  "disable",
			View:     "episode_rows",
		},
		WindowSeconds: defaultWindowSeconds,
		SaveRecords:   true,
		Log: LogConfig{
			Level:  "info",
			Format: "tint",
		},
		JobsNumber: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
