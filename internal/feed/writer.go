package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
	"github.com/paaavkata/crypto-signal-feed/pkg/utils"
)

// Document is the JSON artifact consumed downstream.
type Document struct {
	RunID    string `json:"run_id"`
	Updated  string `json:"updated"`
	Mode     string `json:"mode"`
	Interval string `json:"interval"`
	Count    int    `json:"count"`
	Items    []Item `json:"items"`
}

type Item struct {
	Symbol    string   `json:"symbol"`
	Direction string   `json:"direction"`
	Score     int      `json:"score"`
	Category  string   `json:"category"`
	ReturnZ   *float64 `json:"rz,omitempty"`
	VolumeZ   *float64 `json:"vz,omitempty"`
	ATR       *float64 `json:"atr,omitempty"`
	NATR      *float64 `json:"natr,omitempty"`
}

type Config struct {
	Path          string
	Diagnostics   bool
	UpdatedLayout string
	Location      *time.Location
}

type Writer struct {
	config Config
	logger *logrus.Logger
}

func NewWriter(config Config, logger *logrus.Logger) *Writer {
	if config.UpdatedLayout == "" {
		config.UpdatedLayout = "2006/01/02 15:04:05"
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Writer{config: config, logger: logger}
}

// Build converts a ranked feed into its output document, keeping item order.
func (w *Writer) Build(feed models.RankedFeed) Document {
	items := make([]Item, len(feed.Items))
	for i, s := range feed.Items {
		item := Item{
			Symbol:    s.Symbol,
			Direction: string(s.Direction),
			Score:     s.Score,
			Category:  string(s.Category),
		}
		if w.config.Diagnostics {
			item.ReturnZ = rounded(s.ReturnZ, 2)
			item.VolumeZ = rounded(s.VolumeZ, 2)
			item.ATR = rounded(s.ATR, 4)
			item.NATR = rounded(s.NATR, 4)
		}
		items[i] = item
	}

	return Document{
		RunID:    feed.RunID,
		Updated:  feed.GeneratedAt.In(w.config.Location).Format(w.config.UpdatedLayout),
		Mode:     string(feed.Mode),
		Interval: feed.Interval,
		Count:    len(items),
		Items:    items,
	}
}

// Write replaces the artifact atomically: readers see the old file or the
// complete new one.
func (w *Writer) Write(feed models.RankedFeed) error {
	data, err := sonic.ConfigStd.MarshalIndent(w.Build(feed), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}

	dir := filepath.Dir(w.config.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.config.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write feed: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync feed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close feed: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set feed permissions: %w", err)
	}
	if err := os.Rename(tmpName, w.config.Path); err != nil {
		return fmt.Errorf("failed to replace feed: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"path":   w.config.Path,
		"count":  len(feed.Items),
		"run_id": feed.RunID,
		"bytes":  len(data),
	}).Info("Feed written")
	return nil
}

func rounded(v float64, places int32) *float64 {
	r := utils.RoundFloat(v, places)
	return &r
}
