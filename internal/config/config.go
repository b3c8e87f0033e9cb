package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/portfolio-simulator/pkg/types"
)

// Config 配置文件结构
type Config struct {
	Simulation SimulationSection `yaml:"simulation"`
	Assets     []AssetConfig     `yaml:"assets"`
	Output     OutputSection     `yaml:"output"`
}

// SimulationSection 模拟配置
type SimulationSection struct {
	StartDate              string  `yaml:"start_date"`
	EndDate                string  `yaml:"end_date"`
	TotalInvestment        float64 `yaml:"total_investment"`
	CommissionRate         float64 `yaml:"commission_rate"`
	RebalanceFrequency     string  `yaml:"rebalance_frequency"`
	BaseCurrency           string  `yaml:"base_currency"`
	DataDir                string  `yaml:"data_dir"`
	DelistingThresholdDays int     `yaml:"delisting_threshold_days"`
	NoTradeThreshold       float64 `yaml:"no_trade_threshold"`
}

// AssetConfig 资产配置
type AssetConfig struct {
	Symbol         string  `yaml:"symbol"`
	Name           string  `yaml:"name"`
	Currency       string  `yaml:"currency"`
	AssetType      string  `yaml:"asset_type"`
	InvestmentType string  `yaml:"investment_type"`
	Amount         float64 `yaml:"amount"`
	Weight         float64 `yaml:"weight"`
	DCAFrequency   string  `yaml:"dca_frequency"`
	DCAPeriods     int     `yaml:"dca_periods"`
}

// OutputSection 输出配置
type OutputSection struct {
	Path string `yaml:"path"`
}

// LoadConfig 从文件加载配置
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// ToRequest 转换为模拟请求。
// 频率字符串在这里一次性解析, 不认识的频率直接报 ConfigurationError。
func (c *Config) ToRequest() (*types.PortfolioRequest, error) {
	startDate, err := time.Parse("2006-01-02", c.Simulation.StartDate)
	if err != nil {
		return nil, &types.ConfigurationError{Field: "start_date", Reason: err.Error()}
	}
	endDate, err := time.Parse("2006-01-02", c.Simulation.EndDate)
	if err != nil {
		return nil, &types.ConfigurationError{Field: "end_date", Reason: err.Error()}
	}

	rebalanceFreq, err := types.ParseFrequency(c.Simulation.RebalanceFrequency)
	if err != nil {
		return nil, err
	}

	req := &types.PortfolioRequest{
		StartDate:              startDate,
		EndDate:                endDate,
		CommissionRate:         c.Simulation.CommissionRate,
		RebalanceFrequency:     rebalanceFreq,
		TotalInvestment:        c.Simulation.TotalInvestment,
		BaseCurrency:           c.Simulation.BaseCurrency,
		DelistingThresholdDays: c.Simulation.DelistingThresholdDays,
		NoTradeThreshold:       c.Simulation.NoTradeThreshold,
	}

	for i, asset := range c.Assets {
		alloc := types.AssetAllocation{
			ID:             types.MakeAssetID(i),
			Symbol:         asset.Symbol,
			Name:           asset.Name,
			Currency:       asset.Currency,
			AssetType:      types.AssetType(asset.AssetType),
			InvestmentType: types.InvestmentType(asset.InvestmentType),
			Amount:         asset.Amount,
			Weight:         asset.Weight,
			DCAPeriods:     asset.DCAPeriods,
		}
		if asset.AssetType == "" {
			alloc.AssetType = types.AssetTypeStock
		}
		if asset.InvestmentType == "" {
			alloc.InvestmentType = types.InvestmentLumpSum
		}
		if asset.DCAFrequency != "" {
			freq, err := types.ParseFrequency(asset.DCAFrequency)
			if err != nil {
				return nil, err
			}
			alloc.DCAFrequency = freq
		}
		req.Allocations = append(req.Allocations, alloc)
	}

	return req, nil
}

// Symbols 全部股票标的 (按配置顺序, 去重)
func (c *Config) Symbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, asset := range c.Assets {
		if asset.AssetType == string(types.AssetTypeCash) {
			continue
		}
		if !seen[asset.Symbol] {
			seen[asset.Symbol] = true
			symbols = append(symbols, asset.Symbol)
		}
	}
	return symbols
}

// Currencies 全部非基准货币 (按配置顺序, 去重)
func (c *Config) Currencies() []string {
	base := c.Simulation.BaseCurrency
	if base == "" {
		base = "USD"
	}

	seen := make(map[string]bool)
	var currencies []string
	for _, asset := range c.Assets {
		if asset.Currency == "" || asset.Currency == base {
			continue
		}
		if !seen[asset.Currency] {
			seen[asset.Currency] = true
			currencies = append(currencies, asset.Currency)
		}
	}
	return currencies
}

// GetDataDir 获取数据目录
func (c *Config) GetDataDir() string {
	if c.Simulation.DataDir != "" {
		return c.Simulation.DataDir
	}
	return "data/sample"
}

// GetOutputPath 获取输出路径
func (c *Config) GetOutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return "output/result.json"
}
