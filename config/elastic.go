package config

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// ConnectElastic returns nil when ELASTIC_URL is unset; housing search then
// runs on SQL alone.
func ConnectElastic(cfg *Config) (*elasticsearch.Client, error) {
	if cfg.ElasticURL == "" {
		return nil, nil
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch: %w", err)
	}
	return es, nil
}
