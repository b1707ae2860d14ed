package remover

// Config represents the remover settings
type Config struct {
	Mode     Mode
	DryRun   bool // analyse and patch in memory without writing
	Diff     bool // keep a unified diff per changed file
	Parallel int  // files processed concurrently
	DumpDir  string
}

// DefaultConfig returns in-place, sequential settings
func DefaultConfig() *Config {
	return &Config{
		Mode:     InPlace(),
		Parallel: 1,
	}
}
