package global

var (
	Version        = "1.0.0"
	BuildTime      = "none"
	Verbose        = false
	Debug          = false
	ConfigFilename = "gsy.yaml"
)
