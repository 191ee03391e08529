package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting of a deployment run
type Config struct {
	// GitHub Actions exposes the accessKey/secretKey inputs under these names
	AccessKey string `env:"INPUT_ACCESSKEY"`
	SecretKey string `env:"INPUT_SECRETKEY"`

	APIBaseURL string        `env:"DOGECLOUD_API_URL" env-default:"https://api.dogecloud.com"`
	APIRetries int           `env:"DOGECLOUD_API_RETRIES" env-default:"0"`
	APITimeout time.Duration `env:"DOGECLOUD_API_TIMEOUT" env-default:"0s"`
	Channel    string        `env:"DOGE_TOKEN_CHANNEL" env-default:"OSS_FULL"`
	Scopes     []string      `env:"DOGE_TOKEN_SCOPES" env-default:"*"`

	Bucket       string `env:"DOGE_S3_BUCKET" env-default:"s-sh-10439-xdog-1258813047"`
	Endpoint     string `env:"DOGE_S3_ENDPOINT" env-default:"https://cos.ap-shanghai.myqcloud.com"`
	DogeBucket   string `env:"DOGE_BUCKET_NAME"`
	Region       string `env:"DOGE_S3_REGION" env-default:"automatic"`
	UsePathStyle bool   `env:"DOGE_S3_PATH_STYLE" env-default:"false"`

	SourceDir string   `env:"DOGE_SOURCE_DIR" env-default:"public"`
	Prefix    string   `env:"DOGE_KEY_PREFIX"`
	Excludes  []string `env:"DOGE_EXCLUDES"`

	DetectContentType bool
	DryRun            bool
	Quiet             bool
	Verbose           bool
	ResultJSONFile    string
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source directory is required")
	}
	if c.APIRetries < 0 {
		return errors.New("api retries must not be negative")
	}
	if c.Quiet && c.Verbose {
		return errors.New("--quiet and --verbose are mutually exclusive")
	}

	// Dry runs never talk to the API or the bucket
	if c.DryRun {
		return nil
	}

	var missing []string
	if c.AccessKey == "" {
		missing = append(missing, "access key (INPUT_ACCESSKEY)")
	}
	if c.SecretKey == "" {
		missing = append(missing, "secret key (INPUT_SECRETKEY)")
	}
	if c.DogeBucket == "" {
		if c.Bucket == "" {
			missing = append(missing, "bucket (DOGE_S3_BUCKET)")
		}
		if c.Endpoint == "" {
			missing = append(missing, "endpoint (DOGE_S3_ENDPOINT)")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	return nil
}
