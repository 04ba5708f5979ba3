// Package config provides I/O operations for loading acsdex's
// configuration from a file, environment variables, and CLI flags.
// This is an impure package that handles file system and viper
// operations; pkg/config owns the Config type and its validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardionet/acsdex/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Load reads configuration from a YAML file, ACSDEX_* environment
// variables, and returns a validated config.Config. If configPath is
// empty, it searches default locations:
//   - ./acsdex.yaml
//   - ~/.config/acsdex/acsdex.yaml
//
// If configPath is empty and no file is found in those locations, or
// the file found there cannot be read, Load falls back to
// config.New()'s defaults. An explicit configPath that cannot be read,
// or a file that cannot be unmarshalled, is an error. A value that an
// Option rejects is ignored with a warning, keeping the default.
func Load(configPath string) (config.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ACSDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("acsdex")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "acsdex"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return config.New(), nil
		}
		if configPath != "" {
			return config.Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		return config.New(), nil
	}

	raw := config.New()
	if err := v.Unmarshal(&raw); err != nil {
		return config.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config.New(optionsFromRaw(raw)...), nil
}

// BindFlags binds cobra command flags to viper and returns cfg updated
// with any flags the caller explicitly set. CLI flags take precedence
// over the config file.
func BindFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config.Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	var opts []config.Option
	if v.IsSet("window-seconds") {
		opts = append(opts, config.OptWindowSeconds(v.GetInt("window-seconds")))
	}
	if v.IsSet("save-records") {
		opts = append(opts, config.OptSaveRecords(v.GetBool("save-records")))
	}
	if v.IsSet("log-level") {
		opts = append(opts, config.OptLogLevel(v.GetString("log-level")))
	}
	if v.IsSet("log-format") {
		opts = append(opts, config.OptLogFormat(v.GetString("log-format")))
	}

	return config.New(append(optionsFromRaw(cfg), opts...)...), nil
}

// optionsFromRaw converts every populated field of a parsed config.Config
// back into Option values, so Load can route all input through the same
// validating constructor used by config.New's defaults.
func optionsFromRaw(raw config.Config) []config.Option {
	var opts []config.Option

	if raw.Parser.DiagnosesFile != "" {
		opts = append(opts, config.OptParserDiagnosesFile(raw.Parser.DiagnosesFile))
	}
	if raw.Parser.ProceduresFile != "" {
		opts = append(opts, config.OptParserProceduresFile(raw.Parser.ProceduresFile))
	}
	if raw.Database.Host != "" {
		opts = append(opts, config.OptDatabaseHost(raw.Database.Host))
	}
	if raw.Database.Port > 0 {
		opts = append(opts, config.OptDatabasePort(raw.Database.Port))
	}
	if raw.Database.User != "" {
		opts = append(opts, config.OptDatabaseUser(raw.Database.User))
	}
	if raw.Database.Password != "" {
		opts = append(opts, config.OptDatabasePassword(raw.Database.Password))
	}
	if raw.Database.Database != "" {
		opts = append(opts, config.OptDatabaseName(raw.Database.Database))
	}
	if raw.Database.SSLMode != "" {
		opts = append(opts, config.OptDatabaseSSLMode(raw.Database.SSLMode))
	}
	if raw.Database.View != "" {
		opts = append(opts, config.OptDatabaseView(raw.Database.View))
	}
	if len(raw.CodeGroups.ACS) > 0 {
		opts = append(opts, config.OptCodeGroupsACS(raw.CodeGroups.ACS))
	}
	if len(raw.CodeGroups.PCI) > 0 {
		opts = append(opts, config.OptCodeGroupsPCI(raw.CodeGroups.PCI))
	}
	if len(raw.CodeGroups.STEMI) > 0 {
		opts = append(opts, config.OptCodeGroupsSTEMI(raw.CodeGroups.STEMI))
	}
	if len(raw.CodeGroups.CardiacDeath) > 0 {
		opts = append(opts, config.OptCodeGroupsCardiacDeath(raw.CodeGroups.CardiacDeath))
	}
	if raw.WindowSeconds > 0 {
		opts = append(opts, config.OptWindowSeconds(raw.WindowSeconds))
	}
	opts = append(opts, config.OptSaveRecords(raw.SaveRecords))
	if raw.Log.Level != "" {
		opts = append(opts, config.OptLogLevel(raw.Log.Level))
	}
	if raw.Log.Format != "" {
		opts = append(opts, config.OptLogFormat(raw.Log.Format))
	}
	if raw.JobsNumber > 0 {
		opts = append(opts, config.OptJobsNumber(raw.JobsNumber))
	}

	return opts
}
