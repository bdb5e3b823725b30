package cli

// ApplicationConfiguration describes the persisted configuration for the gitstamp CLI.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration groups per-command configuration.
type ApplicationToolsConfiguration struct {
	Collect  CollectConfiguration  `mapstructure:"collect"`
	Status   StatusConfiguration   `mapstructure:"status"`
	LDFlags  LDFlagsConfiguration  `mapstructure:"ldflags"`
	Generate GenerateConfiguration `mapstructure:"generate"`
}

// CollectConfiguration controls how the repository snapshot is gathered.
type CollectConfiguration struct {
	Repository       string `mapstructure:"repository"`
	Backend          string `mapstructure:"backend"`
	RepositorySource string `mapstructure:"repository_source"`
	RemoteName       string `mapstructure:"remote_name"`
	GitExecutable    string `mapstructure:"git_executable"`
}

// StatusConfiguration controls the status command output.
type StatusConfiguration struct {
	Format       string `mapstructure:"format"`
	IncludeDirty bool   `mapstructure:"include_dirty"`
}

// LDFlagsConfiguration controls the ldflags command output.
type LDFlagsConfiguration struct {
	PackagePath string `mapstructure:"package_path"`
}

// GenerateConfiguration controls the generate command output.
type GenerateConfiguration struct {
	Output  string `mapstructure:"output"`
	Package string `mapstructure:"package"`
}
