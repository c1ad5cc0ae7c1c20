package common

// Environment variable keys
const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvServerPort     = "SERVER_PORT"
	EnvMetricsPort    = "METRICS_PORT"
	EnvDataPath       = "DATA_PATH"
	EnvDatasetPath    = "DATASET_PATH"
	EnvModelName      = "MODEL_NAME"
	EnvTrainSeed      = "TRAIN_SEED"
	EnvTrees          = "TREES"
	EnvMaxDepth       = "MAX_DEPTH"
	EnvTestFraction   = "TEST_FRACTION"
	EnvChatbotLLMURL  = "CHATBOT_LLM_URL"
	EnvChatbotTimeout = "CHATBOT_TIMEOUT"
	EnvLogLevel       = "LOG_LEVEL"
)

// Configuration defaults
const (
	DefaultServerPort   = 8000
	DefaultMetricsPort  = 9090
	DefaultDataPath     = "data"
	DefaultDatasetPath  = "data/student_performance.csv"
	DefaultModelName    = "student-performance"
	DefaultTrainSeed    = 42
	DefaultTrees        = 100
	DefaultMaxDepth     = 10
	DefaultTestFraction = 0.2
)

// Serving-layer defaults applied when a recommendation request carries
// no performance data. They never reach the classifier.
const (
	DefaultSubject          = "Mathematics"
	DefaultQuizScore        = 65.0
	DefaultAttendance       = 80.0
	DefaultPerformanceLevel = "Average"
)

// Validation bounds
const (
	MinPort         = 1024
	MaxPort         = 65535
	MinTrees        = 1
	MaxTrees        = 1000
	MinTreeDepth    = 1
	MaxTreeDepth    = 64
	MinTestFraction = 0.05
	MaxTestFraction = 0.5
)
