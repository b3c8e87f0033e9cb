package marketdata

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Loader 行情数据加载器接口
type Loader interface {
	// Load 加载指定标的的价格序列与指定货币的汇率序列
	Load(symbols []string, currencies []string, start, end time.Time) (*MarketData, error)

	// SourceType 数据源类型
	SourceType() string
}

// CSVLoader CSV 数据加载器。
// 价格文件: <symbol>.csv, 列 Date/Open/High/Low/Close/Volume/Adj Close;
// 汇率文件: fx_<currency>.csv, 列 Date/Rate。
type CSVLoader struct {
	dataDir string
}

// NewCSVLoader 创建 CSV 加载器
func NewCSVLoader(dataDir string) *CSVLoader {
	return &CSVLoader{dataDir: dataDir}
}

// SourceType 返回数据源类型
func (l *CSVLoader) SourceType() string {
	return "csv"
}

// Load 加载全部行情到内存
func (l *CSVLoader) Load(symbols []string, currencies []string, start, end time.Time) (*MarketData, error) {
	md := New()

	for _, symbol := range symbols {
		if err := l.loadSymbol(md, symbol, start, end); err != nil {
			return nil, fmt.Errorf("failed to load data for %s: %w", symbol, err)
		}
	}
	for _, cur := range currencies {
		if err := l.loadRates(md, cur, start, end); err != nil {
			return nil, fmt.Errorf("failed to load fx rates for %s: %w", cur, err)
		}
	}

	return md, nil
}

// loadSymbol 加载单个标的的价格序列
func (l *CSVLoader) loadSymbol(md *MarketData, symbol string, start, end time.Time) error {
	records, err := l.readFile(symbol + ".csv")
	if err != nil {
		return err
	}

	colIndex := parseHeader(records[0])
	if _, ok := colIndex["date"]; !ok {
		return fmt.Errorf("no date column in %s.csv", symbol)
	}

	for i := 1; i < len(records); i++ {
		row := records[i]
		date, price, err := parsePriceRow(row, colIndex)
		if err != nil {
			continue // 跳过解析错误的行
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		md.AddPrice(symbol, date, price)
	}
	return nil
}

// loadRates 加载单个货币的汇率序列
func (l *CSVLoader) loadRates(md *MarketData, currency string, start, end time.Time) error {
	records, err := l.readFile("fx_" + currency + ".csv")
	if err != nil {
		return err
	}

	colIndex := parseHeader(records[0])

	for i := 1; i < len(records); i++ {
		row := records[i]
		dateIdx, dateOK := colIndex["date"]
		rateIdx, rateOK := colIndex["rate"]
		if !dateOK || !rateOK || dateIdx >= len(row) || rateIdx >= len(row) {
			continue
		}
		date, err := parseDate(row[dateIdx])
		if err != nil {
			continue
		}
		rate, err := strconv.ParseFloat(row[rateIdx], 64)
		if err != nil {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		md.AddRate(currency, date, rate)
	}
	return nil
}

// readFile 读取并解析整个 CSV 文件
func (l *CSVLoader) readFile(name string) ([][]string, error) {
	filePath := filepath.Join(l.dataDir, name)
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file %s has no data rows", name)
	}
	return records, nil
}

// parseHeader 解析CSV表头, 列名大小写不敏感
func parseHeader(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		switch col {
		case "Date", "date", "DATE", "Timestamp", "timestamp":
			colIndex["date"] = i
		case "Close", "close", "CLOSE":
			colIndex["close"] = i
		case "Adj Close", "adj_close", "AdjClose", "Adj_Close":
			colIndex["adj_close"] = i
		case "Rate", "rate", "RATE":
			colIndex["rate"] = i
		}
	}
	return colIndex
}

// parsePriceRow 解析价格行, 优先使用复权收盘价
func parsePriceRow(row []string, colIndex map[string]int) (time.Time, float64, error) {
	idx := colIndex["date"]
	if idx >= len(row) {
		return time.Time{}, 0, fmt.Errorf("row too short")
	}
	date, err := parseDate(row[idx])
	if err != nil {
		return time.Time{}, 0, err
	}

	var price float64
	if i, ok := colIndex["adj_close"]; ok && i < len(row) {
		price, _ = strconv.ParseFloat(row[i], 64)
	}
	if price <= 0 {
		if i, ok := colIndex["close"]; ok && i < len(row) {
			price, _ = strconv.ParseFloat(row[i], 64)
		}
	}
	if price <= 0 {
		return time.Time{}, 0, fmt.Errorf("no usable price")
	}
	return date, price, nil
}

// parseDate 解析日期字符串
func parseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
