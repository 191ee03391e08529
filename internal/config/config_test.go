package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INPUT_ACCESSKEY", "ak")
	t.Setenv("INPUT_SECRETKEY", "sk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ak", cfg.AccessKey)
	assert.Equal(t, "sk", cfg.SecretKey)
	assert.Equal(t, "https://api.dogecloud.com", cfg.APIBaseURL)
	assert.Equal(t, "OSS_FULL", cfg.Channel)
	assert.Equal(t, []string{"*"}, cfg.Scopes)
	assert.Equal(t, "s-sh-10439-xdog-1258813047", cfg.Bucket)
	assert.Equal(t, "https://cos.ap-shanghai.myqcloud.com", cfg.Endpoint)
	assert.Equal(t, "automatic", cfg.Region)
	assert.Equal(t, "public", cfg.SourceDir)
	assert.Equal(t, 0, cfg.APIRetries)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DOGE_S3_BUCKET", "other-bucket")
	t.Setenv("DOGE_EXCLUDES", "*.map,drafts/")
	t.Setenv("DOGECLOUD_API_TIMEOUT", "30s")
	t.Setenv("DOGECLOUD_API_RETRIES", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "other-bucket", cfg.Bucket)
	assert.Equal(t, []string{"*.map", "drafts/"}, cfg.Excludes)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 2, cfg.APIRetries)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AccessKey: "ak",
			SecretKey: "sk",
			Bucket:    "b",
			Endpoint:  "https://e",
			SourceDir: "public",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing access key", mutate: func(c *Config) { c.AccessKey = "" }, wantErr: "INPUT_ACCESSKEY"},
		{name: "missing secret key", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "INPUT_SECRETKEY"},
		{name: "missing bucket", mutate: func(c *Config) { c.Bucket = "" }, wantErr: "DOGE_S3_BUCKET"},
		{name: "doge bucket replaces bucket and endpoint", mutate: func(c *Config) {
			c.Bucket, c.Endpoint, c.DogeBucket = "", "", "site"
		}},
		{name: "dry run needs no keys", mutate: func(c *Config) {
			c.AccessKey, c.SecretKey, c.DryRun = "", "", true
		}},
		{name: "missing source", mutate: func(c *Config) { c.SourceDir = "" }, wantErr: "source directory"},
		{name: "negative retries", mutate: func(c *Config) { c.APIRetries = -1 }, wantErr: "retries"},
		{name: "quiet and verbose", mutate: func(c *Config) { c.Quiet, c.Verbose = true, true }, wantErr: "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
