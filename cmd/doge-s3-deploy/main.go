package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/config"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/dogecloud"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/logging"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/s3client"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/uploader"
	"github.com/yuya-takeyama/doge-s3-deploy/internal/walker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// DeployResult represents the outcome of a run, written with --result-json-file
type DeployResult struct {
	Bucket   string        `json:"bucket"`
	Endpoint string        `json:"endpoint"`
	Files    []ResultFile  `json:"files"`
	Errors   []ErrorFile   `json:"errors"`
	Summary  ResultSummary `json:"summary"`
}

type ResultFile struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type ErrorFile struct {
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error"`
}

type ResultSummary struct {
	Uploaded   int64 `json:"uploaded"`
	Failed     int64 `json:"failed"`
	ListErrors int64 `json:"listErrors"`
	Skipped    int64 `json:"skipped"`
	Bytes      int64 `json:"bytes"`
	DryRun     bool  `json:"dryRun"`
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doge-s3-deploy [SourceDir]",
		Short: "Deploy a directory to DogeCloud object storage",
		Long: `doge-s3-deploy exchanges DogeCloud account keys for temporary S3 credentials
and uploads every file under SourceDir to the bucket, keeping relative paths
and content types.

Settings are read from the environment first (INPUT_ACCESSKEY, INPUT_SECRETKEY,
DOGE_S3_BUCKET, ...) and flags override them.`,
		Version:       fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
				return err
			}
			applyFlags(cmd.Flags(), cfg)
			if len(args) == 1 {
				cfg.SourceDir = args[0]
			}

			logger := logging.NewLogger(logging.Options{Quiet: cfg.Quiet, Verbose: cfg.Verbose})
			if err := cfg.Validate(); err != nil {
				logger.Error("%v", err)
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, logger); err != nil {
				logger.Error("%v", err)
				return err
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.String("access-key", "", "DogeCloud AccessKey (env INPUT_ACCESSKEY)")
	flags.String("secret-key", "", "DogeCloud SecretKey (env INPUT_SECRETKEY)")
	flags.String("api-url", "", "DogeCloud API base URL")
	flags.Int("api-retries", 0, "Retries for the credential request")
	flags.Duration("api-timeout", 0, "Timeout for the credential request (0 for none)")
	flags.String("bucket", "", "S3 bucket name")
	flags.String("endpoint", "", "S3 endpoint URL")
	flags.String("doge-bucket", "", "DogeCloud bucket name; resolves bucket and endpoint from the token response")
	flags.String("region", "", "S3 signing region")
	flags.Bool("path-style", false, "Use path-style S3 addressing")
	flags.String("prefix", "", "Key prefix for uploaded objects")
	flags.StringSlice("exclude", nil, "Exclude patterns (multiple allowed)")
	flags.Bool("detect-content-type", false, "Sniff content when the extension is unknown")
	flags.Bool("dryrun", false, "Shows operations without executing")
	flags.Bool("quiet", false, "Suppress non-error output")
	flags.Bool("verbose", false, "Enable debug output")
	flags.String("result-json-file", "", "Path to output result as JSON file")

	return rootCmd
}

// applyFlags overrides environment settings with flags given on the command line
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	strs := map[string]*string{
		"access-key":       &cfg.AccessKey,
		"secret-key":       &cfg.SecretKey,
		"api-url":          &cfg.APIBaseURL,
		"bucket":           &cfg.Bucket,
		"endpoint":         &cfg.Endpoint,
		"doge-bucket":      &cfg.DogeBucket,
		"region":           &cfg.Region,
		"prefix":           &cfg.Prefix,
		"result-json-file": &cfg.ResultJSONFile,
	}
	for name, dst := range strs {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	bools := map[string]*bool{
		"path-style":          &cfg.UsePathStyle,
		"detect-content-type": &cfg.DetectContentType,
		"dryrun":              &cfg.DryRun,
		"quiet":               &cfg.Quiet,
		"verbose":             &cfg.Verbose,
	}
	for name, dst := range bools {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	if flags.Changed("api-retries") {
		cfg.APIRetries, _ = flags.GetInt("api-retries")
	}
	if flags.Changed("api-timeout") {
		cfg.APITimeout, _ = flags.GetDuration("api-timeout")
	}
	if flags.Changed("exclude") {
		cfg.Excludes, _ = flags.GetStringSlice("exclude")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	matcher, err := walker.NewMatcher(cfg.Excludes)
	if err != nil {
		return err
	}

	bucket, endpoint := cfg.Bucket, cfg.Endpoint
	var client s3client.Client

	if !cfg.DryRun {
		// Credentials must be in hand before the first upload
		apiClient := dogecloud.NewClient(cfg.AccessKey, cfg.SecretKey, dogecloud.Options{
			BaseURL:    cfg.APIBaseURL,
			MaxRetries: cfg.APIRetries,
			Timeout:    cfg.APITimeout,
			Logger:     logger.Zerolog(),
		})

		token, err := apiClient.TmpToken(ctx, cfg.Channel, cfg.Scopes)
		if err != nil {
			return fmt.Errorf("failed to get temporary credentials: %w", err)
		}
		if !token.Credentials.Expiration.IsZero() {
			logger.Debug("temporary credentials expire at %s", token.Credentials.Expiration.Format("2006-01-02 15:04:05 MST"))
		}

		if cfg.DogeBucket != "" {
			b, ok := token.FindBucket(cfg.DogeBucket)
			if !ok {
				return fmt.Errorf("bucket %q is not covered by the temporary credentials", cfg.DogeBucket)
			}
			bucket, endpoint = b.S3Bucket, b.S3Endpoint
		}

		client, err = s3client.NewClient(ctx, s3client.Config{
			Endpoint:        endpoint,
			Region:          cfg.Region,
			UsePathStyle:    cfg.UsePathStyle,
			AccessKeyID:     token.Credentials.AccessKeyID,
			SecretAccessKey: token.Credentials.SecretAccessKey,
			SessionToken:    token.Credentials.SessionToken,
		})
		if err != nil {
			return fmt.Errorf("create S3 client: %w", err)
		}
	}

	logger.Info("Uploading %s to s3://%s/%s via %s", cfg.SourceDir, bucket, cfg.Prefix, endpoint)

	report, err := uploader.UploadDirectory(ctx, cfg.SourceDir, client, bucket, uploader.Options{
		Prefix:            cfg.Prefix,
		Matcher:           matcher,
		DryRun:            cfg.DryRun,
		DetectContentType: cfg.DetectContentType,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	logger.PrintSummary(report.Summary())

	if cfg.ResultJSONFile != "" {
		if err := writeDeployResult(cfg.ResultJSONFile, buildDeployResult(report, bucket, endpoint)); err != nil {
			return fmt.Errorf("failed to write result JSON: %w", err)
		}
	}

	return report.Err()
}

func buildDeployResult(report *uploader.Report, bucket, endpoint string) DeployResult {
	summary := report.Summary()
	result := DeployResult{
		Bucket:   bucket,
		Endpoint: endpoint,
		Files:    []ResultFile{},
		Errors:   []ErrorFile{},
		Summary: ResultSummary{
			Uploaded:   summary.Uploaded,
			Failed:     summary.Failed,
			ListErrors: summary.ListErrors,
			Skipped:    summary.Skipped,
			Bytes:      summary.BytesUploaded,
			DryRun:     summary.DryRun,
		},
	}

	for _, r := range report.Results() {
		if r.Error != nil {
			result.Errors = append(result.Errors, ErrorFile{
				Source: r.Task.LocalPath,
				Target: formatS3Path(bucket, r.Task.Key),
				Code:   s3client.ErrorCode(r.Error),
				Error:  r.Error.Error(),
			})
			continue
		}
		result.Files = append(result.Files, ResultFile{
			Source:      r.Task.LocalPath,
			Target:      formatS3Path(bucket, r.Task.Key),
			ContentType: r.Task.ContentType,
			Size:        r.Task.Size,
		})
	}

	for _, listErr := range report.ListErrors() {
		result.Errors = append(result.Errors, ErrorFile{
			Source: listErr.Dir,
			Target: formatS3Path(bucket, ""),
			Error:  listErr.Error(),
		})
	}

	return result
}

func writeDeployResult(path string, result DeployResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func formatS3Path(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
