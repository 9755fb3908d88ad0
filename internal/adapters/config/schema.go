package config

// Smakefile represents the structure of the smake.yaml configuration file.
type Smakefile struct {
	// Root is the project root, relative to the file's directory when not absolute.
	Root string `yaml:"root"`
	// Tool is the path of the build tool. "~" expands to the home directory.
	Tool string `yaml:"tool"`
	// Output is auto, tui or linear.
	Output string `yaml:"output"`
	// WaitDelay is a Go duration string such as "5s".
	WaitDelay string `yaml:"wait_delay"`
	// LogDepsGraph defaults to true when omitted.
	LogDepsGraph *bool `yaml:"log_deps_graph"`
}
