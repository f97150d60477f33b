package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Environment string `yaml:"environment"`
	Redis       struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL       string `yaml:"ttl"`
		UseRemote bool   `yaml:"use_remote"`
	} `yaml:"catalog"`
	Shopify struct {
		StoreDomain     string `yaml:"store_domain"`
		AccessToken     string `yaml:"access_token"`
		APIVersion      string `yaml:"api_version"`
		StorefrontURL   string `yaml:"storefront_url"`
		StorefrontToken string `yaml:"storefront_token"`
	} `yaml:"shopify"`
	Sheets struct {
		WebAppURL string `yaml:"web_app_url"`
	} `yaml:"sheets"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Quiz struct {
		ProfilePrefix       string `yaml:"profile_prefix"`
		ProductHandleFormat string `yaml:"product_handle_format"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path. The backend access credential may also
// arrive via SHOPIFY_ACCESS_TOKEN so it never has to live in the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if token := os.Getenv("SHOPIFY_ACCESS_TOKEN"); token != "" {
		cfg.Shopify.AccessToken = token
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
