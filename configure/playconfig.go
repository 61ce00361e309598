package configure

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/gwuhaolin/playgo/av"

	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

/*
{
  "level": "info",
  "max_sleep_ms": 3000,
  "cache_ahead": 25,
  "source_fps": 25,
  "source_frames": 250
}
*/

type PlayerCfg struct {
	Level        string  `mapstructure:"level"`
	ConfigFile   string  `mapstructure:"config_file"`
	MaxSleepMs   int     `mapstructure:"max_sleep_ms"`
	CacheAhead   int64   `mapstructure:"cache_ahead"`
	FrameTTLSec  int     `mapstructure:"frame_ttl_sec"`
	RedisAddr    string  `mapstructure:"redis_addr"`
	RedisPwd     string  `mapstructure:"redis_pwd"`
	SourceFPS    float64 `mapstructure:"source_fps"`
	SourceFrames int64   `mapstructure:"source_frames"`
	SourceWidth  int     `mapstructure:"source_width"`
	SourceHeight int     `mapstructure:"source_height"`
	SampleRate   int     `mapstructure:"sample_rate"`
	Channels     int     `mapstructure:"channels"`
}

// default config
var defaultConf = PlayerCfg{
	ConfigFile:   "playgo.yaml",
	MaxSleepMs:   3000,
	CacheAhead:   25,
	FrameTTLSec:  30,
	SourceFPS:    25,
	SourceFrames: 250,
	SourceWidth:  320,
	SourceHeight: 180,
	SampleRate:   44100,
	Channels:     2,
}

var (
	Config = viper.New()

	// BypassInit can be used to bypass the init() function by setting this
	// value to True at compile time.
	//
	// go build -ldflags "-X 'github.com/gwuhaolin/playgo/configure.BypassInit=true'" -o playgo main.go
	BypassInit string = ""
)

func initLog() {
	if l, err := log.ParseLevel(Config.GetString("level")); err == nil {
		log.SetLevel(l)
		log.SetReportCaller(l == log.DebugLevel)
	}
}

func init() {
	if BypassInit == "" {
		initDefault()
	}
}

func initDefault() {
	defer Init()

	// Default config
	b, _ := json.Marshal(defaultConf)
	defaultConfig := bytes.NewReader(b)
	viper.SetConfigType("json")
	viper.ReadConfig(defaultConfig)
	Config.MergeConfigMap(viper.AllSettings())

	// Flags
	pflag.String("config_file", "playgo.yaml", "configure filename")
	pflag.String("level", "info", "Log level")
	pflag.Int("max_sleep_ms", 3000, "sync loop sleep ceiling in milliseconds")
	pflag.Int64("cache_ahead", 25, "frames the pre-cache driver keeps warm ahead of the playhead")
	pflag.Int("frame_ttl_sec", 30, "seconds a cached frame stays warm")
	pflag.String("redis_addr", "", "redis server address for resume positions")
	pflag.String("redis_pwd", "", "redis server password")
	pflag.Float64("source_fps", 25, "synthetic source frame rate")
	pflag.Int64("source_frames", 250, "synthetic source length in frames")
	pflag.Int("source_width", 320, "synthetic source width in pixels")
	pflag.Int("source_height", 180, "synthetic source height in pixels")
	pflag.Int("sample_rate", 44100, "synthetic source sample rate")
	pflag.Int("channels", 2, "synthetic source channel count")
	// test binaries push their own flags through the same command line
	pflag.CommandLine.ParseErrorsWhitelist.UnknownFlags = true
	pflag.Parse()
	Config.BindPFlags(pflag.CommandLine)

	// File
	Config.SetConfigFile(Config.GetString("config_file"))
	Config.AddConfigPath(".")
	err := Config.ReadInConfig()
	if err != nil {
		log.Warning(err)
		log.Info("Using default config")
	} else {
		Config.MergeInConfig()
	}

	// Environment
	replacer := strings.NewReplacer(".", "_")
	Config.SetEnvKeyReplacer(replacer)
	Config.AllowEmptyEnv(true)
	Config.AutomaticEnv()

	// Log
	initLog()

	// Print final config
	c := PlayerCfg{}
	Config.Unmarshal(&c)
	log.Debugf("Current configurations: \n%# v", pretty.Formatter(c))
}

// MaxSleep is the sync loop's per-iteration sleep ceiling.
func MaxSleep() time.Duration {
	return time.Duration(Config.GetInt("max_sleep_ms")) * time.Millisecond
}

// FrameTTL is how long a cached frame stays warm.
func FrameTTL() time.Duration {
	return time.Duration(Config.GetInt("frame_ttl_sec")) * time.Second
}

// SourceInfo assembles the synthetic source description from the source_*
// keys.
func SourceInfo() av.Info {
	return av.Info{
		Path:        "generator://demo",
		HasAudio:    true,
		HasVideo:    true,
		FPS:         Config.GetFloat64("source_fps"),
		VideoLength: Config.GetInt64("source_frames"),
		Width:       Config.GetInt("source_width"),
		Height:      Config.GetInt("source_height"),
		SampleRate:  Config.GetInt("sample_rate"),
		Channels:    Config.GetInt("channels"),
	}
}
