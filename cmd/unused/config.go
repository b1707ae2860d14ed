package main

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName   = "unused"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	databaseFlagName  = "database"
	outputFlagName    = "output"
	dryRunFlagName    = "dry-run"
	diffFlagName      = "diff"
	shadowingFlagName = "shadowing"
	keepFlagName      = "keep"
	parallelFlagName  = "parallel"
	reportFlagName    = "report"
	dumpASTFlagName   = "dump-ast"
	colorFlagName     = "color"
	strictFlagName    = "strict"
	verboseFlagName   = "verbose"

	databaseConfigKey  = "run.database"
	outputConfigKey    = "run.output"
	shadowingConfigKey = "run.shadowing"
	keepConfigKey      = "run.keep"
	parallelConfigKey  = "run.parallel"
	reportConfigKey    = "run.report"
	dumpASTConfigKey   = "run.dump_ast"
	strictConfigKey    = "run.strict"
	colorConfigKey     = "color"

	defaultDatabase  = "compile_commands.json"
	defaultShadowing = "scope"
	defaultParallel  = 1
	defaultColor     = "auto"

	envPrefix = "UNUSED"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".unused.log"
	defaultLogLevel      = "info"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(databaseConfigKey, defaultDatabase)
	viper.SetDefault(outputConfigKey, "")
	viper.SetDefault(shadowingConfigKey, defaultShadowing)
	viper.SetDefault(keepConfigKey, []string{})
	viper.SetDefault(parallelConfigKey, defaultParallel)
	viper.SetDefault(reportConfigKey, "")
	viper.SetDefault(dumpASTConfigKey, "")
	viper.SetDefault(strictConfigKey, false)
	viper.SetDefault(colorConfigKey, defaultColor)

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	// a missing config file leaves the defaults in place
	_ = viper.ReadInConfig()
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	switch level {
	case "":
		return defaultLevel
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}
	return defaultLevel
}

// configureLogger installs a slog text logger writing to a rotating log file.
// Debug level is used when verbose is set.
func configureLogger(verbose bool) *slog.Logger {
	logPath := strings.TrimSpace(viper.GetString(logFilenameKey))
	if logPath == "" {
		logPath = defaultLogFilename
	}
	logLevel := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		logLevel = slog.LevelDebug
	}
	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}
	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
