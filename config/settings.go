package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/rushteam/learnrec/engine"
	"github.com/rushteam/learnrec/repetition"
	"github.com/rushteam/learnrec/store"
)

// EnvPrefix 是环境变量覆盖的前缀：LEARNREC_RECOMMEND_DEFAULT_LIMIT → recommend.default_limit。
const EnvPrefix = "LEARNREC_"

// Settings 是引擎与 CLI 的运行配置。
//
// 加载顺序（后者覆盖前者）：
//  1. 内置默认值（DefaultSettings）
//  2. YAML 配置文件（可选）
//  3. LEARNREC_ 前缀的环境变量
type Settings struct {
	Recommend  RecommendSettings  `koanf:"recommend"`
	Repetition RepetitionSettings `koanf:"repetition"`
	Store      StoreSettings      `koanf:"store"`
	Log        LogSettings        `koanf:"log"`
	Metrics    MetricsSettings    `koanf:"metrics"`
}

// RecommendSettings 推荐参数
type RecommendSettings struct {
	DefaultLimit      int           `koanf:"default_limit" validate:"gte=1,lte=100"`
	ExclusionWindow   time.Duration `koanf:"exclusion_window" validate:"gt=0"`
	DifficultyBand    float64       `koanf:"difficulty_band" validate:"gt=0,lte=1"`
	DifficultyStretch float64       `koanf:"difficulty_stretch" validate:"gte=0,lte=1"`
	WeakThreshold     float64       `koanf:"weak_threshold" validate:"gt=0,lte=100"`
	WeakTopN          int           `koanf:"weak_top_n" validate:"gte=0"`
	MasteredThreshold float64       `koanf:"mastered_threshold" validate:"gt=0,lte=1"`
	Strategy          string        `koanf:"strategy" validate:"oneof=cosine heuristic"`
	HeuristicSpread   float64       `koanf:"heuristic_spread" validate:"gt=0"`
	FeatureCacheSize  int           `koanf:"feature_cache_size" validate:"gte=0"`
	CandidateRule     string        `koanf:"candidate_rule"`
	// Pipeline 可选的薄弱主题子链路 YAML/JSON 文件
	Pipeline string `koanf:"pipeline"`
}

// RepetitionSettings 间隔重复参数
type RepetitionSettings struct {
	InitialInterval time.Duration `koanf:"initial_interval" validate:"gt=0"`
	EaseFactor      float64       `koanf:"ease_factor" validate:"gt=1"`
	MinInterval     time.Duration `koanf:"min_interval" validate:"gt=0"`
	MaxInterval     time.Duration `koanf:"max_interval" validate:"gtfield=MinInterval"`
}

// StoreSettings 存储后端
type StoreSettings struct {
	Backend        string `koanf:"backend" validate:"oneof=memory redis badger"`
	RedisAddr      string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db" validate:"gte=0"`
	BadgerPath     string `koanf:"badger_path"`
	BadgerInMemory bool   `koanf:"badger_in_memory"`
	KeyPrefix      string `koanf:"key_prefix" validate:"required"`
}

// LogSettings 日志
type LogSettings struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// MetricsSettings 监控
type MetricsSettings struct {
	Enabled bool `koanf:"enabled"`
}

// DefaultSettings 返回内置默认配置。
func DefaultSettings() *Settings {
	d := engine.DefaultConfig()
	return &Settings{
		Recommend: RecommendSettings{
			DefaultLimit:      d.DefaultLimit,
			ExclusionWindow:   d.ExclusionWindow,
			DifficultyBand:    d.DifficultyBand,
			DifficultyStretch: d.DifficultyStretch,
			WeakThreshold:     d.WeakThreshold,
			WeakTopN:          d.WeakTopN,
			MasteredThreshold: d.MasteredThreshold,
			Strategy:          d.Strategy,
			HeuristicSpread:   30,
		},
		Repetition: RepetitionSettings{
			InitialInterval: repetition.DefaultInitialInterval,
			EaseFactor:      repetition.DefaultEaseFactor,
			MinInterval:     repetition.DefaultMinInterval,
			MaxInterval:     repetition.DefaultMaxInterval,
		},
		Store: StoreSettings{
			Backend:   store.BackendMemory,
			KeyPrefix: "learnrec",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load 按 默认值 → path（为空则跳过）→ 环境变量 的顺序加载配置并校验。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// envKey 把 LEARNREC_STORE_REDIS_ADDR 转换为 store.redis_addr：第一段是分组，其余保持下划线。
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 按 struct tag 校验配置。
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if s.Store.Backend == store.BackendBadger && s.Store.BadgerPath == "" && !s.Store.BadgerInMemory {
		return fmt.Errorf("invalid settings: store.badger_path is required unless store.badger_in_memory is set")
	}
	return nil
}

// EngineConfig 转换为 engine.Config。
func (s *Settings) EngineConfig() engine.Config {
	r := s.Recommend
	return engine.Config{
		DefaultLimit:      r.DefaultLimit,
		ExclusionWindow:   r.ExclusionWindow,
		DifficultyBand:    r.DifficultyBand,
		DifficultyStretch: r.DifficultyStretch,
		WeakThreshold:     r.WeakThreshold,
		WeakTopN:          r.WeakTopN,
		MasteredThreshold: r.MasteredThreshold,
		Strategy:          r.Strategy,
		HeuristicSpread:   r.HeuristicSpread,
		FeatureCacheSize:  r.FeatureCacheSize,
		CandidateRule:     r.CandidateRule,
		Repetition: engine.RepetitionConfig{
			InitialInterval: s.Repetition.InitialInterval,
			EaseFactor:      s.Repetition.EaseFactor,
			MinInterval:     s.Repetition.MinInterval,
			MaxInterval:     s.Repetition.MaxInterval,
		},
	}
}

// StoreOptions 转换为 store.Options。
func (s *Settings) StoreOptions() store.Options {
	return store.Options{
		Backend:        s.Store.Backend,
		RedisAddr:      s.Store.RedisAddr,
		RedisPassword:  s.Store.RedisPassword,
		RedisDB:        s.Store.RedisDB,
		BadgerPath:     s.Store.BadgerPath,
		BadgerInMemory: s.Store.BadgerInMemory,
	}
}

// NewLogger 按日志配置创建 zerolog.Logger，w 为 nil 时输出到 stderr。
func (s *Settings) NewLogger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if s.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	level, err := zerolog.ParseLevel(s.Log.Level)
	if err != nil || s.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
