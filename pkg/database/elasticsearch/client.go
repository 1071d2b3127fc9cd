package elasticsearch

import (
	"context"
	"fmt"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/huynhanx03/go-esbulk/pkg/settings"
)

// New creates an Elasticsearch client from configuration.
func New(cfg settings.Elasticsearch) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	return client, nil
}

// Ping checks that the cluster answers the info endpoint.
func Ping(ctx context.Context, client ElasticClient) error {
	res, err := esapi.InfoRequest{}.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPingFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrPingFailed, res.Status())
	}
	return nil
}
