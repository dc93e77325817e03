// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2017-2023 The Spacemesh developers

package host

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap/zapcore"
)

const (
	defaultDbDirName      = "db"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "poe.log"
	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10
	defaultCacheSize      = 10000
	defaultQueueSize      = 128

	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// Config defines the configuration options of a registry host.
//
//nolint:lll
type Config struct {
	PoeDir         string  `long:"poedir"         description:"The base directory that contains the registry data, logs, configuration file, etc."`
	ConfigFile     string  `long:"configfile"     description:"Path to configuration file"                                                       short:"c"`
	DataDir        string  `long:"datadir"        description:"The directory to store data within"                                               short:"b"`
	DbDir          string  `long:"dbdir"          description:"The directory to store DBs within"`
	LogDir         string  `long:"logdir"         description:"Directory to log output."`
	DebugLog       bool    `long:"debuglog"       description:"Enable debug logs"`
	JSONLog        bool    `long:"jsonlog"        description:"Whether to log in JSON format"`
	MaxLogFiles    int     `long:"maxlogfiles"    description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int     `long:"maxlogfilesize" description:"Maximum logfile size in MB"`
	MetricsPort    *uint16 `long:"metrics-port"   description:"The port to expose metrics"`

	Registry  RegistryConfig  `group:"Registry"`
	Sequencer SequencerConfig `group:"Sequencer"`
}

//nolint:lll
type RegistryConfig struct {
	Backend   string `long:"backend"    description:"Registry storage backend"                 choice:"leveldb" choice:"memory"`
	CacheSize int    `long:"cache-size" description:"Number of records to cache in memory (0 disables the cache)"`
}

//nolint:lll
type SequencerConfig struct {
	StartSeq  uint64 `long:"start-seq"  description:"Sequence number of the first operation (0 resumes after the last journaled event)"`
	QueueSize int    `long:"queue-size" description:"Number of operations that can wait for the sequencer"`
}

// DefaultConfig returns a config with default hardcoded values.
func DefaultConfig() *Config {
	poeDir := "./poe"
	cacheDir, err := os.UserCacheDir()
	if err == nil {
		poeDir = filepath.Join(cacheDir, "poe")
	}

	return &Config{
		PoeDir:         poeDir,
		DataDir:        filepath.Join(poeDir, defaultDataDirname),
		DbDir:          filepath.Join(poeDir, defaultDbDirName),
		LogDir:         filepath.Join(poeDir, defaultLogDirname),
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		Registry: RegistryConfig{
			Backend:   BackendLevelDB,
			CacheSize: defaultCacheSize,
		},
		Sequencer: SequencerConfig{
			QueueSize: defaultQueueSize,
		},
	}
}

// ParseFlags reads values from command line arguments.
func ParseFlags(preCfg *Config, args []string) (*Config, error) {
	if _, err := flags.ParseArgs(preCfg, args); err != nil {
		return nil, err
	}
	return preCfg, nil
}

// ReadConfigFile reads config from an ini file.
// It uses the provided `cfg` as a base config and overrides it with the values
// from the config file.
func ReadConfigFile(cfg *Config) (*Config, error) {
	if cfg.ConfigFile == "" {
		return cfg, nil
	}
	if err := flags.IniParse(cfg.ConfigFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from %v: %w", cfg.ConfigFile, err)
	}

	return cfg, nil
}

// SetupConfig expands paths and initializes filesystem.
func SetupConfig(cfg *Config) (*Config, error) {
	// If the provided poe directory is not the default, we'll modify the
	// path to all of the files and directories that will live within it.
	defaultCfg := DefaultConfig()
	if cfg.PoeDir != defaultCfg.PoeDir {
		if cfg.DataDir == defaultCfg.DataDir {
			cfg.DataDir = filepath.Join(cfg.PoeDir, defaultDataDirname)
		}
		if cfg.LogDir == defaultCfg.LogDir {
			cfg.LogDir = filepath.Join(cfg.PoeDir, defaultLogDirname)
		}
		if cfg.DbDir == defaultCfg.DbDir {
			cfg.DbDir = filepath.Join(cfg.PoeDir, defaultDbDirName)
		}
	}

	// Create the poe directory if it doesn't already exist.
	if err := os.MkdirAll(cfg.PoeDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create %v: %w", cfg.PoeDir, err)
	}

	// As soon as we're done parsing configuration options, ensure all paths
	// to directories and files are cleaned and expanded before attempting
	// to use them later on.
	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.DbDir = cleanAndExpandPath(cfg.DbDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	return cfg, nil
}

// LogFile returns the path of the log file, or "" if file logging is disabled.
func (c *Config) LogFile() string {
	if c.LogDir == "" {
		return ""
	}
	return filepath.Join(c.LogDir, defaultLogFilename)
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		user, err := user.Current()
		if err == nil {
			homeDir = user.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// implement zap.ObjectMarshaler interface.
func (c *Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("poedir", c.PoeDir)
	enc.AddString("datadir", c.DataDir)
	enc.AddString("dbdir", c.DbDir)
	enc.AddString("backend", c.Registry.Backend)
	enc.AddInt("cache-size", c.Registry.CacheSize)
	enc.AddUint64("start-seq", c.Sequencer.StartSeq)
	enc.AddInt("queue-size", c.Sequencer.QueueSize)
	return nil
}
