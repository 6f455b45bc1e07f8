package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePatternSet(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadPatternSet(t *testing.T) {
	path := writePatternSet(t, `subscriptions:
  - pattern: stock.**.price
    id: price-feed
  - pattern: orders.*
    id: order-audit
`)

	entries, err := loadPatternSet(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "stock.**.price", entries[0].Pattern)
	assert.Equal(t, "price-feed", entries[0].ID)
	assert.Equal(t, "orders.*", entries[1].Pattern)
	assert.Equal(t, "order-audit", entries[1].ID)
}

func TestLoadPatternSet_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loadPatternSet(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty set", func(t *testing.T) {
		path := writePatternSet(t, "subscriptions: []\n")
		_, err := loadPatternSet(path)
		assert.Error(t, err)
	})

	t.Run("entry without id", func(t *testing.T) {
		path := writePatternSet(t, "subscriptions:\n  - pattern: orders.*\n")
		_, err := loadPatternSet(path)
		assert.Error(t, err)
	})
}

func TestRunMatch(t *testing.T) {
	logger = zerolog.Nop()
	path := writePatternSet(t, `subscriptions:
  - pattern: a.*.c
    id: one
  - pattern: a.**
    id: two
`)

	var out bytes.Buffer
	err := runMatch(&out, path, []string{"a.b.c", "x.y"})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "a.b.c: 2 match(es)")
	assert.Contains(t, output, "a.*.c -> one")
	assert.Contains(t, output, "a.** -> two")
	assert.Contains(t, output, "x.y: 0 match(es)")
}

func TestRunMatch_BadPattern(t *testing.T) {
	logger = zerolog.Nop()
	path := writePatternSet(t, `subscriptions:
  - pattern: a..b
    id: broken
`)

	var out bytes.Buffer
	err := runMatch(&out, path, []string{"a.b"})
	assert.Error(t, err)
}

func TestRunRoute(t *testing.T) {
	logger = zerolog.Nop()
	path := writePatternSet(t, `subscriptions:
  - pattern: stock.**.price
    id: price-feed
  - pattern: stock.nyse.ibm.volume
    id: volume-feed
`)

	var out bytes.Buffer
	err := runRoute(&out, "", path, 30*time.Second, []string{"stock.nyse.ibm.price"})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "stock.nyse.ibm.price: 1 subscriber(s)")
	assert.Contains(t, output, "price-feed")
	assert.Contains(t, output, "patterns=2 subscriptions=2 journal=2")
}
