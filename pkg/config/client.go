package config

import (
	"time"

	"github.com/spf13/viper"
)

// Client configures the browse command's collection and HTTP source.
type Client struct {
	BaseURL        string        `validate:"required,url"`
	Table          string        `validate:"required"`
	PageSize       int           `validate:"gte=1"`
	Pagination     string        `validate:"oneof=none offset page cursor"`
	CacheTTL       time.Duration `validate:"gte=0"`
	SearchDebounce time.Duration `validate:"gte=0"`
	Timeout        time.Duration `validate:"gt=0"`
}

func getClientConfig(v *viper.Viper) *Client {
	return &Client{
		BaseURL:        v.GetString("client.base_url"),
		Table:          v.GetString("client.table"),
		PageSize:       v.GetInt("client.page_size"),
		Pagination:     v.GetString("client.pagination"),
		CacheTTL:       v.GetDuration("client.cache_ttl"),
		SearchDebounce: v.GetDuration("client.search_debounce"),
		Timeout:        v.GetDuration("client.timeout"),
	}
}
