package elasticsearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"pagination_backend/internal/config"
)

const (
	maxRetries  = 5
	pingTimeout = 10 * time.Second
)

// ESClientWrapper is the search cluster handle injected into the catalog.
// A nil *ESClientWrapper means search is switched off.
type ESClientWrapper struct {
	*elasticsearch.Client
}

// transportLogger feeds every round trip to zap at debug level.
type transportLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*transportLogger)(nil)

func (l *transportLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("duration", dur),
	}
	if res != nil {
		fields = append(fields, zap.Int("status_code", res.StatusCode))
	}
	if err != nil {
		l.logger.Warn("Search cluster request failed", append(fields, zap.Error(err))...)
		return nil
	}
	l.logger.Debug("Search cluster request", fields...)
	return nil
}

func (l *transportLogger) RequestBodyEnabled() bool  { return false }
func (l *transportLogger) ResponseBodyEnabled() bool { return false }

// clientConfig retries throttling and gateway failures with a linear backoff.
func clientConfig(url string, logger *zap.Logger) elasticsearch.Config {
	return elasticsearch.Config{
		Addresses: []string{url},
		Logger:    &transportLogger{logger: logger.Named("SearchTransport")},
		RetryOnStatus: []int{
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
		RetryBackoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * 100 * time.Millisecond
		},
		MaxRetries: maxRetries,
	}
}

// NewClient connects to ELASTICSEARCH_URL and checks the cluster answers.
// An empty URL disables search: the result is a nil client and a nil error.
func NewClient(cfg *config.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Info("ELASTICSEARCH_URL is not set, category search is disabled")
		return nil, nil
	}

	client, err := elasticsearch.NewClient(clientConfig(cfg.ElasticsearchURL, logger))
	if err != nil {
		return nil, fmt.Errorf("creating search client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := ping(ctx, client); err != nil {
		logger.Error("Search cluster is unreachable", zap.String("url", cfg.ElasticsearchURL), zap.Error(err))
		return nil, err
	}

	logger.Info("Search cluster connected",
		zap.String("url", cfg.ElasticsearchURL),
		zap.String("client_version", elasticsearch.Version),
	)
	return &ESClientWrapper{Client: client}, nil
}

func ping(ctx context.Context, client *elasticsearch.Client) error {
	res, err := esapi.InfoRequest{}.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("pinging search cluster: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("pinging search cluster: status %s: %s", res.Status(), body)
	}
	return nil
}
