package modelstore

import (
	"fmt"

	"github.com/kiranshivaraju/cancerscan/internal/config"
)

// New constructs the Fetcher selected by cfg.Model.Source.
// Called once at server startup.
func New(cfg *config.Config) (Fetcher, error) {
	switch cfg.Model.Source {
	case config.ModelSourceHTTP:
		return NewHTTPFetcher(cfg.Model.URL, cfg.Model.LoadTimeout), nil
	case config.ModelSourceS3:
		return NewS3Fetcher(S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.Model.Bucket,
			Object:    cfg.Model.Object,
		})
	default:
		return nil, fmt.Errorf("unknown model source %q: must be one of http, s3", cfg.Model.Source)
	}
}
