package model

// MarketConfig describes where a market's constituents are scraped from
// and which columns carry the company name and ticker.
type MarketConfig struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Url             string `yaml:"url" json:"url"`
	Table           int    `yaml:"table" json:"table"`
	NameColumn      string `yaml:"nameColumn" json:"nameColumn"`
	TickerColumn    string `yaml:"tickerColumn" json:"tickerColumn"`
	SectorColumn    string `yaml:"sectorColumn" json:"sectorColumn,omitempty"`
	TickerSuffix    string `yaml:"tickerSuffix" json:"tickerSuffix,omitempty"`
	TickerDotToDash bool   `yaml:"tickerDotToDash" json:"tickerDotToDash,omitempty"`
}

type MarketsFile struct {
	Markets []MarketConfig `yaml:"markets"`
}

// Table is a scraped HTML table. Rows are keyed by column header.
type Table struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Constituent is one stock of a market index.
type Constituent struct {
	Name        string `mapstructure:"name" json:"name"`
	Ticker      string `mapstructure:"ticker" json:"ticker"`
	Sector      string `mapstructure:"sector" json:"sector,omitempty"`
	DisplayName string `mapstructure:"-" json:"displayName"`
}

// MarketStatus reports the outcome of loading one market.
type MarketStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Stocks int    `json:"stocks"`
	Error  string `json:"error,omitempty"`
}

// --- Huma Structs ---

type MarketPathInput struct {
	Market string `path:"market" doc:"Market identifier" example:"sp500"`
}
