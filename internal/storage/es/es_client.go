package es

import (
	"errors"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type ClientConfig struct {
	Addresses []string
	// IndexName prefixes the articles and sources indices.
	IndexName string
	Username  string
	Password  string
}

func (c ClientConfig) articlesIndex() string {
	return c.IndexName + "_articles"
}

func (c ClientConfig) sourcesIndex() string {
	return c.IndexName + "_sources"
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)

	return client, err
}

func hasStatus(err error, status int) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == status
}
