package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"stockdash/model"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed markets.yaml
var defaultMarkets []byte

type SystemConfigs struct {
	Config  *model.EnvConfig
	Markets []model.MarketConfig
}

// LoadConfigs reads the `config` JSON variable (optionally from .env) and
// the market definitions. A missing `config` variable falls back to defaults.
func LoadConfigs() (*SystemConfigs, error) {
	godotenv.Load()

	envCfg, err := ParseEnvConfig(os.Getenv("config"))
	if err != nil {
		return nil, err
	}

	markets, err := LoadMarkets(envCfg.MarketsFile)
	if err != nil {
		return nil, err
	}

	return &SystemConfigs{
		Config:  envCfg,
		Markets: markets,
	}, nil
}

func ParseEnvConfig(rawJson string) (*model.EnvConfig, error) {
	var envCfg model.EnvConfig
	if rawJson != "" {
		if err := json.Unmarshal([]byte(rawJson), &envCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	applyDefaults(&envCfg)
	return &envCfg, nil
}

func applyDefaults(cfg *model.EnvConfig) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if len(cfg.FrontendUrls) == 0 {
		cfg.FrontendUrls = []string{"http://localhost:3000"}
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 15
	}
	if cfg.HttpTimeoutSeconds <= 0 {
		cfg.HttpTimeoutSeconds = 15
	}
	if cfg.YahooBaseUrl == "" {
		cfg.YahooBaseUrl = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
}

// LoadMarkets parses the YAML market list from path, or the embedded
// default list when path is empty.
func LoadMarkets(path string) ([]model.MarketConfig, error) {
	data := defaultMarkets
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read markets file: %w", err)
		}
		data = raw
	}
	return ParseMarkets(data)
}

func ParseMarkets(data []byte) ([]model.MarketConfig, error) {
	var file model.MarketsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse markets: %w", err)
	}
	if len(file.Markets) == 0 {
		return nil, fmt.Errorf("markets: no market defined")
	}

	seen := make(map[string]bool, len(file.Markets))
	for _, m := range file.Markets {
		if m.ID == "" || m.Url == "" {
			return nil, fmt.Errorf("markets: id and url are required (got %q)", m.Name)
		}
		if m.NameColumn == "" || m.TickerColumn == "" {
			return nil, fmt.Errorf("markets: %s needs nameColumn and tickerColumn", m.ID)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("markets: duplicate id %s", m.ID)
		}
		seen[m.ID] = true
	}
	return file.Markets, nil
}

type ConfigManager struct {
	value atomic.Value
}

func NewConfigManager(initial *model.EnvConfig) *ConfigManager {
	cm := &ConfigManager{}
	cm.value.Store(initial)
	return cm
}

func (cm *ConfigManager) GetConfig() *model.EnvConfig {
	return cm.value.Load().(*model.EnvConfig)
}
