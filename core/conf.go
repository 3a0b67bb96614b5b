package core

type Conf struct {
	Version            string `long:"version" description:"version of grover-lab" env:"GROVER_LAB_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"GROVER_LAB_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"GROVER_LAB_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"GROVER_LAB_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"GROVER_LAB_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"GROVER_LAB_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"GROVER_LAB_LOG_ROTATION_MAX_DAYS"`
	OutputDir          string `long:"output-dir" description:"directory for run logs, plots and images" default:"./shares/results" env:"GROVER_LAB_OUTPUT_DIR"`
	DisableRunLog      bool   `long:"disable-run-log" description:"do not write the per-run results log" env:"GROVER_LAB_DISABLE_RUN_LOG"`
	DisablePlot        bool   `long:"disable-plot" description:"do not render PNG plots" env:"GROVER_LAB_DISABLE_PLOT"`
	Seed               int64  `long:"seed" description:"simulator seed, 0 seeds from the clock" default:"0" env:"GROVER_LAB_SEED"`
	MaxQubits          int    `long:"max-qubits" description:"largest register the simulator accepts, 0 uses 16" default:"0" env:"GROVER_LAB_MAX_QUBITS"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"GROVER_LAB_SETTING_PATH"`
}
