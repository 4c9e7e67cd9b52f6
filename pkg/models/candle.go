package models

import (
	"fmt"
	"strings"
	"time"
)

// ChronoOrder tells the normalizer which direction a candle payload runs in.
// The zero value is deliberately invalid so callers must state it.
type ChronoOrder int

const (
	ChronoUnspecified ChronoOrder = iota
	OldestFirst
	NewestFirst
)

func (o ChronoOrder) String() string {
	switch o {
	case OldestFirst:
		return "oldest_first"
	case NewestFirst:
		return "newest_first"
	default:
		return "unspecified"
	}
}

func (o ChronoOrder) Valid() bool {
	return o == OldestFirst || o == NewestFirst
}

func ParseChronoOrder(s string) (ChronoOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oldest_first", "oldest", "asc":
		return OldestFirst, nil
	case "newest_first", "newest", "desc":
		return NewestFirst, nil
	}
	return ChronoUnspecified, fmt.Errorf("unknown candle order %q (want oldest_first or newest_first)", s)
}

// FieldMap holds the tuple position of each candle field. A position of -1
// marks a field the source does not deliver. Close and Volume are mandatory.
type FieldMap struct {
	Timestamp int
	Volume    int
	Close     int
	High      int
	Low       int
	Open      int
}

// NewFieldMap returns a map with every field marked absent.
func NewFieldMap() FieldMap {
	return FieldMap{Timestamp: -1, Volume: -1, Close: -1, High: -1, Low: -1, Open: -1}
}

// ParseFieldMap reads a comma separated layout such as "t,v,c,h,l,o".
// Recognised tokens: t, v, c, h, l, o; "_" skips a position.
func ParseFieldMap(layout string) (FieldMap, error) {
	fm := NewFieldMap()
	seen := make(map[string]bool)

	for i, raw := range strings.Split(layout, ",") {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "_" {
			continue
		}
		if seen[token] {
			return FieldMap{}, fmt.Errorf("duplicate candle field %q in layout %q", token, layout)
		}
		seen[token] = true

		switch token {
		case "t":
			fm.Timestamp = i
		case "v":
			fm.Volume = i
		case "c":
			fm.Close = i
		case "h":
			fm.High = i
		case "l":
			fm.Low = i
		case "o":
			fm.Open = i
		default:
			return FieldMap{}, fmt.Errorf("unknown candle field %q in layout %q", token, layout)
		}
	}

	if err := fm.Validate(); err != nil {
		return FieldMap{}, err
	}
	return fm, nil
}

// Validate rejects maps without close/volume positions, including the zero value.
func (f FieldMap) Validate() error {
	if f.Close < 0 || f.Volume < 0 {
		return fmt.Errorf("candle field map must locate close and volume (close=%d, volume=%d)", f.Close, f.Volume)
	}
	if f.Close == f.Volume {
		return fmt.Errorf("candle field map points close and volume at the same index %d", f.Close)
	}
	return nil
}

// Width is the minimum tuple length needed to read every mapped field.
func (f FieldMap) Width() int {
	width := 0
	for _, idx := range []int{f.Timestamp, f.Volume, f.Close, f.High, f.Low, f.Open} {
		if idx+1 > width {
			width = idx + 1
		}
	}
	return width
}

func (f FieldMap) String() string {
	names := make([]string, f.Width())
	for i := range names {
		names[i] = "_"
	}
	set := func(idx int, name string) {
		if idx >= 0 {
			names[idx] = name
		}
	}
	set(f.Timestamp, "t")
	set(f.Volume, "v")
	set(f.Close, "c")
	set(f.High, "h")
	set(f.Low, "l")
	set(f.Open, "o")
	return strings.Join(names, ",")
}

// RawCandle is one numeric tuple exactly as the source delivered it.
type RawCandle []float64

// Candle is the canonical bar. Sequences of Candle are always oldest first.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Contract is a top-N candidate picked from the ticker list.
type Contract struct {
	Symbol    string
	Rank      int
	Volume24h float64
	LastPrice float64
}
