package cfg

type Cfg struct {
	// Storage configuration
	DataDir   string
	OutputDir string
	DBPath    string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Calibre integration
	CalibreLibrary string
	CalibredbPath  string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
