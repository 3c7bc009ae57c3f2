package config

// Overrides holds values set on the command line. Zero values leave the
// loaded config untouched.
type Overrides struct {
	Debug    bool
	LogFile  string
	OnError  string
	Output   string
	NoBackup bool
	Encoding string
	Marker   string
	Skip     string
}

// apply applies CLI overrides to the config.
func (o Overrides) apply(cfg *Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
	if o.OnError != "" {
		cfg.Generate.OnError = o.OnError
	}
	if o.Output != "" {
		cfg.Generate.Output = o.Output
	}
	if o.NoBackup {
		cfg.Generate.Backup = false
	}
	if o.Encoding != "" {
		cfg.Input.Encoding = o.Encoding
	}
	if o.Marker != "" {
		cfg.Materials.Marker = o.Marker
	}
	if o.Skip != "" {
		cfg.Materials.Skip = o.Skip
	}
}
