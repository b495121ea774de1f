package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	FieldName         string  `yaml:"fieldName"`
	Port              int     `yaml:"port"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds"`
	ProgressPerSecond float64 `yaml:"progressPerSecond"` // 0 disables throttling
	MarkFailedEntries bool    `yaml:"markFailedEntries"`
	StageFolder       string  `yaml:"stageFolder,omitempty"`
	AllowLan          bool    `yaml:"allowLan"` // if true, private network clients may use the dashboard
	NotifySocket      string  `yaml:"notifySocket,omitempty"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log           string
	UseConfigPath string
	UseEndpoint   string
	UseFieldName  string
	UsePort       int
	Serve         bool // if true, run the dashboard API instead of uploading args.
	Single        bool // if true, upload the first arg with the single uploader.
	SkipNotify    bool // if true, skip unix socket notify.
	ShowQRCode    bool // if true, print a QR code of the dashboard url on start.
	Files         []string
}
