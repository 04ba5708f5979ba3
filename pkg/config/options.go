package config

import "strings"

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptParserDiagnosesFile sets the path to the diagnosis taxonomy document.
func OptParserDiagnosesFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Parser Diagnoses File", s) {
			c.Parser.DiagnosesFile = s
		}
	}
}

// OptParserProceduresFile sets the path to the procedure taxonomy document.
func OptParserProceduresFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Parser Procedures File", s) {
			c.Parser.ProceduresFile = s
		}
	}
}

// OptCodeGroupsACS sets the taxonomy group names that make up the ACS
// metagroup.
func OptCodeGroupsACS(groups []string) Option {
	return func(c *Config) {
		if isValidGroupList("Code Groups ACS", groups) {
			c.CodeGroups.ACS = groups
		}
	}
}

// OptCodeGroupsPCI sets the taxonomy group names that make up the PCI
// metagroup.
func OptCodeGroupsPCI(groups []string) Option {
	return func(c *Config) {
		if isValidGroupList("Code Groups PCI", groups) {
			c.CodeGroups.PCI = groups
		}
	}
}

// OptCodeGroupsSTEMI sets the taxonomy group names that make up the
// STEMI metagroup.
func OptCodeGroupsSTEMI(groups []string) Option {
	return func(c *Config) {
		if isValidGroupList("Code Groups STEMI", groups) {
			c.CodeGroups.STEMI = groups
		}
	}
}

// OptCodeGroupsCardiacDeath sets the taxonomy group names that make up
// the Cardiac-death metagroup.
func OptCodeGroupsCardiacDeath(groups []string) Option {
	return func(c *Config) {
		if isValidGroupList("Code Groups Cardiac Death", groups) {
			c.CodeGroups.CardiacDeath = groups
		}
	}
}

// OptDatabaseHost sets the Postgres server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the Postgres server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the Postgres username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the Postgres password.
func OptDatabasePassword(s string) Option {
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseName sets the Postgres database name to connect to.
func OptDatabaseName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseView sets the name of the episode-row view or table
// internal/io/database queries.
func OptDatabaseView(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database View", s) {
			c.Database.View = s
		}
	}
}

// OptWindowSeconds sets the before/after window length in seconds.
func OptWindowSeconds(i int) Option {
	return func(c *Config) {
		if isValidInt("Window Seconds", i) {
			c.WindowSeconds = i
		}
	}
}

// OptSaveRecords toggles whether internal/io/export persists feature
// records. Always accepted: a bool has no invalid state.
func OptSaveRecords(b bool) Option {
	return func(c *Config) { c.SaveRecords = b }
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers. acsdex's core
// pass is single-threaded (spec §5), and no part of acsdex reads this
// value.
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}
