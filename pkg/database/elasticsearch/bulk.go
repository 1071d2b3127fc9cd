package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/huynhanx03/go-esbulk/pkg/pool"
	"github.com/huynhanx03/go-esbulk/pkg/settings"
	"github.com/huynhanx03/go-esbulk/pkg/sink"
)

// BulkTransport sends sink batches through the Bulk API.
type BulkTransport struct {
	client         ElasticClient
	includeDocType bool
	refresh        string
}

var _ sink.BulkClient = (*BulkTransport)(nil)

// NewBulkTransport creates a new bulk transport
func NewBulkTransport(client ElasticClient, cfg settings.Elasticsearch) *BulkTransport {
	return &BulkTransport{
		client:         client,
		includeDocType: cfg.IncludeDocType,
		refresh:        cfg.Refresh,
	}
}

type bulkMeta struct {
	Index bulkMetaFields `json:"index"`
}

type bulkMetaFields struct {
	Index string `json:"_index"`
	Type  string `json:"_type,omitempty"`
	ID    string `json:"_id"`
}

// Bulk implements sink.BulkClient.
func (t *BulkTransport) Bulk(ctx context.Context, actions []sink.BulkAction) (*sink.BulkResponse, error) {
	body := pool.Get()
	defer pool.Put(body)

	if err := t.encode(body, actions); err != nil {
		return nil, err
	}

	req := esapi.BulkRequest{
		Body:    bytes.NewReader(body.Bytes()),
		Refresh: t.refresh,
	}

	res, err := req.Do(ctx, t.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBulkRequestFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrBulkRequestFailed, res.Status())
	}

	var out sink.BulkResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return &out, nil
}

// encode renders actions into buf as newline-delimited action/document pairs.
func (t *BulkTransport) encode(buf *bytes.Buffer, actions []sink.BulkAction) error {
	enc := json.NewEncoder(buf)

	for _, a := range actions {
		meta := bulkMeta{Index: bulkMetaFields{Index: a.Meta.Index, ID: a.Meta.ID}}
		if t.includeDocType {
			meta.Index.Type = a.Meta.Type
		}

		// Meta line
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}

		// Data line
		if err := enc.Encode(a.Body); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	}

	return nil
}
