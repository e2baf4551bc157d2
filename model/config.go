package model

// --- SYSTEM CONFIG ---
// EnvConfig holds process settings decoded from the `config` environment variable
type EnvConfig struct {
	Port               string   `json:"port"`
	Environment        string   `json:"environment"`
	DebugMode          bool     `json:"debug"`
	FrontendUrls       []string `json:"frontendUrls"`
	RedisUrl           string   `json:"redisUrl"`
	MarketsFile        string   `json:"marketsFile"`
	RateLimiter        bool     `json:"rateLimiter"`
	RequestsPerSecond  float64  `json:"requestsPerSecond"`
	Burst              int      `json:"burst"`
	HttpTimeoutSeconds int      `json:"httpTimeoutSeconds"`
	YahooBaseUrl       string   `json:"yahooBaseUrl"`
}

func (c *EnvConfig) IsProduction() bool {
	return c.Environment == "production"
}
