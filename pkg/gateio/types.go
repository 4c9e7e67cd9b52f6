package gateio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

// CandleLayout is the field order of the tuples produced by Candlestick.Tuple.
const CandleLayout = "t,v,c,h,l,o"

// CandleFields is CandleLayout as a field map.
func CandleFields() models.FieldMap {
	return models.FieldMap{Timestamp: 0, Volume: 1, Close: 2, High: 3, Low: 4, Open: 5}
}

// CandleOrder is the direction the futures candlesticks endpoint returns bars in.
const CandleOrder = models.OldestFirst

type APIError struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

type Ticker struct {
	Contract         string `json:"contract"`
	Last             string `json:"last"`
	ChangePercentage string `json:"change_percentage"`
	Volume24h        string `json:"volume_24h"`
	Volume24hBase    string `json:"volume_24h_base"`
	Volume24hQuote   string `json:"volume_24h_quote"`
	Volume24hSettle  string `json:"volume_24h_settle"`
	MarkPrice        string `json:"mark_price"`
	FundingRate      string `json:"funding_rate"`
	IndexPrice       string `json:"index_price"`
	High24h          string `json:"high_24h"`
	Low24h           string `json:"low_24h"`
}

type Candlestick struct {
	Timestamp float64         `json:"t"`
	Volume    decimal.Decimal `json:"v"`
	Close     string          `json:"c"`
	High      string          `json:"h"`
	Low       string          `json:"l"`
	Open      string          `json:"o"`
	Sum       string          `json:"sum"`
}

// Tuple flattens the bar into CandleLayout order. Unparseable prices become
// NaN so the normalizer drops the row instead of reading a fake zero.
func (c Candlestick) Tuple() models.RawCandle {
	return models.RawCandle{
		c.Timestamp,
		c.Volume.InexactFloat64(),
		parseField(c.Close),
		parseField(c.High),
		parseField(c.Low),
		parseField(c.Open),
	}
}

func parseField(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.NaN()
	}
	return d.InexactFloat64()
}

// FetchError covers transport failures, non-2xx responses and undecodable bodies.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateio %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateio %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
