package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
)

//EnvPrefix is prepended to every environment override, e.g. TENNIS_HTTP_PORT
const EnvPrefix = "TENNIS"

type Directories struct {
	Root        string
	Uploads     string
	Frames      string
	Annotations string
	Generated   string
	Confirmed   string
}

//All lists the directories main creates at startup, root first
func (d Directories) All() []string {
	return []string{d.Root, d.Uploads, d.Frames, d.Annotations, d.Generated, d.Confirmed}
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Config struct {
	Port              string
	StaticFilesPath   string
	Directory         Directories
	AnnotationStorage string
	LabelStorage      string
	PostgresURL       string
	Redis             Redis
	MinBoxSize        float64
	RequireCategory   bool
}

//New returns a viper instance with defaults, env overrides and config.yaml search paths set up
func New(paths ...string) *viper.Viper {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.port", "8080")
	v.SetDefault("frontend.static-files-path", "")
	v.SetDefault("directory.root", "data")
	v.SetDefault("directory.uploads", "data/uploads")
	v.SetDefault("directory.frames", "data/raw_frames")
	v.SetDefault("directory.annotations", "data/annotations")
	v.SetDefault("directory.generated", "data/labelled_data/generated")
	v.SetDefault("directory.confirmed", "data/labelled_data/confirmed")
	v.SetDefault("storage.annotations", "file")
	v.SetDefault("storage.labels", "file")
	v.SetDefault("postgres.url", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tennis")
	v.SetDefault("annotation.min-box-size", annotate.DefaultMinBoxSize)
	v.SetDefault("annotation.require-category", true)
	return v
}

//Load reads .env (if present) and config.yaml (if present) from the given paths
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config.Load: No .env file loaded, got '%v'", err)
	}

	v := New(paths...)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.Load: Could not read config file, got '%v'", err)
		}
		log.Printf("config.Load: No config file found, using defaults and environment")
	}
	return FromViper(v)
}

//FromViper builds a Config and checks the values main cannot run without
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:            v.GetString("http.port"),
		StaticFilesPath: v.GetString("frontend.static-files-path"),
		Directory: Directories{
			Root:        v.GetString("directory.root"),
			Uploads:     v.GetString("directory.uploads"),
			Frames:      v.GetString("directory.frames"),
			Annotations: v.GetString("directory.annotations"),
			Generated:   v.GetString("directory.generated"),
			Confirmed:   v.GetString("directory.confirmed"),
		},
		AnnotationStorage: strings.ToLower(v.GetString("storage.annotations")),
		LabelStorage:      strings.ToLower(v.GetString("storage.labels")),
		PostgresURL:       v.GetString("postgres.url"),
		Redis: Redis{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
		MinBoxSize:      v.GetFloat64("annotation.min-box-size"),
		RequireCategory: v.GetBool("annotation.require-category"),
	}

	switch cfg.AnnotationStorage {
	case "file":
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, errors.New("config: storage.annotations is postgres but postgres.url is empty")
		}
	default:
		return nil, fmt.Errorf("config: unknown storage.annotations '%s'", cfg.AnnotationStorage)
	}

	switch cfg.LabelStorage {
	case "file", "redis":
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, errors.New("config: storage.labels is postgres but postgres.url is empty")
		}
	default:
		return nil, fmt.Errorf("config: unknown storage.labels '%s'", cfg.LabelStorage)
	}

	if cfg.Port == "" || cfg.Directory.Frames == "" || cfg.Directory.Annotations == "" {
		return nil, errors.New("config: Missing critical configurations")
	}
	if cfg.MinBoxSize < 0 {
		return nil, fmt.Errorf("config: annotation.min-box-size must not be negative, got %v", cfg.MinBoxSize)
	}
	return cfg, nil
}
