package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"coffeehouse/internal/domain"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Payment  PaymentConfig  `yaml:"payment"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Menu     []MenuItem     `yaml:"menu"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type PaymentConfig struct {
	SecretKey  string `yaml:"secret_key"`
	Currency   string `yaml:"currency"`
	SuccessURL string `yaml:"success_url"`
	CancelURL  string `yaml:"cancel_url"`
}

type CheckoutConfig struct {
	// MaxStockRetries bounds re-read/re-validate attempts when the branch
	// inventory write loses the optimistic concurrency race.
	MaxStockRetries int `yaml:"max_stock_retries"`
}

type MenuItem struct {
	Name         string         `yaml:"name"`
	Price        float64        `yaml:"price"`
	Cost         float64        `yaml:"cost"`
	Requirements map[string]int `yaml:"requirements"`
	Description  string         `yaml:"description"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Checkout.MaxStockRetries <= 0 {
		cfg.Checkout.MaxStockRetries = 3
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "myr"
	}

	return &cfg, nil
}

// BuildMenu converts the config menu section into the domain catalog, or
// falls back to the built-in default menu when the section is empty.
func (c *Config) BuildMenu() domain.Menu {
	if len(c.Menu) == 0 {
		return domain.DefaultMenu()
	}

	menu := make(domain.Menu, len(c.Menu))
	for _, item := range c.Menu {
		menu[item.Name] = domain.MenuItem{
			Name:         item.Name,
			Price:        item.Price,
			Cost:         item.Cost,
			Requirements: item.Requirements,
			Description:  item.Description,
		}
	}
	return menu
}
