package feed

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paaavkata/crypto-signal-feed/pkg/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testFeed() models.RankedFeed {
	return models.RankedFeed{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Mode:        models.ModeFast,
		Interval:    "1m",
		Items: []models.Signal{
			{Symbol: "SOL_USDT", Direction: models.Long, Score: 428, Category: models.Altcoin,
				ReturnZ: 4.8481, VolumeZ: 5.3839, ATR: 0.045012, NATR: 0.61234},
			{Symbol: "BTC_USDT", Direction: models.Short, Score: 142, Category: models.Mainstream,
				ReturnZ: -2.505, VolumeZ: 1, ATR: 0.01},
		},
	}
}

func TestWriter_Build(t *testing.T) {
	w := NewWriter(Config{Path: "unused", Diagnostics: true, Location: time.UTC}, newTestLogger())
	doc := w.Build(testFeed())

	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, "2026/03/04 05:06:07", doc.Updated)
	assert.Equal(t, "fast", doc.Mode)
	assert.Equal(t, "1m", doc.Interval)
	assert.Equal(t, 2, doc.Count)

	require.Len(t, doc.Items, 2)
	first := doc.Items[0]
	assert.Equal(t, "SOL_USDT", first.Symbol)
	assert.Equal(t, "long", first.Direction)
	assert.Equal(t, "altcoin", first.Category)
	assert.Equal(t, 4.85, *first.ReturnZ)
	assert.Equal(t, 5.38, *first.VolumeZ)
	assert.Equal(t, 0.045, *first.ATR)
	assert.Equal(t, 0.6123, *first.NATR)

	assert.Equal(t, -2.51, *doc.Items[1].ReturnZ)
	assert.Equal(t, "short", doc.Items[1].Direction)
}

func TestWriter_BuildWithoutDiagnostics(t *testing.T) {
	w := NewWriter(Config{Path: "unused", Location: time.UTC}, newTestLogger())
	doc := w.Build(testFeed())

	assert.Nil(t, doc.Items[0].ReturnZ)
	assert.Nil(t, doc.Items[0].ATR)
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_fast.json")
	w := NewWriter(Config{Path: path, Diagnostics: false, Location: time.UTC}, newTestLogger())

	require.NoError(t, w.Write(testFeed()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(2), doc["count"])

	items := doc["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, "SOL_USDT", first["symbol"])
	assert.NotContains(t, first, "rz")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriter_WriteEmptyFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_slow.json")
	w := NewWriter(Config{Path: path, Location: time.UTC}, newTestLogger())

	feed := testFeed()
	feed.Items = nil
	require.NoError(t, w.Write(feed))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items": []`)
	assert.Contains(t, string(data), `"count": 0`)
}

func TestWriter_WriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data_fast.json")
	err := NewWriter(Config{Path: path, Location: time.UTC}, newTestLogger()).Write(testFeed())
	assert.Error(t, err)
}
