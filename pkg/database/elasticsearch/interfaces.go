package elasticsearch

import (
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticClient is the part of the Elasticsearch client the adapter needs.
// *elasticsearch.Client satisfies it.
type ElasticClient interface {
	esapi.Transport
}
