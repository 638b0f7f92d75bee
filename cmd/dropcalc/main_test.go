package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/dropcalc/internal/config"
	"github.com/xtding233/dropcalc/internal/logger"
)

// shipped catalog, relative to this package
const catalogDir = "../../config"

func testConfig(dir string) *config.Config {
	return &config.Config{
		CatalogDir:    dir,
		LogLevel:      "error",
		LogFormat:     "text",
		CacheSize:     8,
		MaxPoints:     10,
		WatchInterval: 20 * time.Millisecond,
	}
}

func quietLogger() *slog.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	return logger.New(cfg, io.Discard)
}

func render(t *testing.T, args ...string) string {
	t.Helper()
	opts, ov, err := parseFlags(args, io.Discard)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, run(context.Background(), testConfig(catalogDir), opts, ov, quietLogger(), &buf))
	return buf.String()
}

func TestParseFlags(t *testing.T) {
	_, _, err := parseFlags(nil, io.Discard)
	require.Error(t, err, "source is required")

	opts, ov, err := parseFlags([]string{"-source", "telos", "-rate", "500", "-levels", "0, 400,1200", "-luck"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "telos", opts.source)
	assert.True(t, opts.luck)
	assert.Equal(t, []float64{0, 400, 1200}, opts.levels)
	require.NotNil(t, ov.Rate)
	assert.Equal(t, 500.0, *ov.Rate)
	assert.Nil(t, ov.PityStart, "unset flags do not override")
	assert.Nil(t, ov.EnrageLevel)

	_, _, err = parseFlags([]string{"-source", "telos", "-levels", "x"}, io.Discard)
	require.Error(t, err)
}

func TestRun_PityAndEnrage(t *testing.T) {
	out := render(t, "-source", "telos", "-item", "seren-godbow", "-luck", "-pity",
		"-levels", "0,400", "-simulate", "200", "-seed", "7")

	assert.Contains(t, out, "Dormant Seren godbow: 1/1000.00 (0.100% per kill)")
	assert.Contains(t, out, "luck+pity")
	assert.Contains(t, out, "telos at 100% enrage")
	assert.Contains(t, out, "1/500.00", "level 400 halves the rate")
	assert.Contains(t, out, "after ")
	assert.Contains(t, out, "combined", "curve shows the combined series")
	assert.Contains(t, out, "simulation")
}

func TestRun_TableDrop(t *testing.T) {
	out := render(t, "-source", "araxxor", "-item", "araxyte-fang", "-luck")

	assert.Contains(t, out, "1/51.20")
	assert.NotContains(t, out, "after ", "no pity, no comparison")
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "kills") {
			assert.NotContains(t, line, "luck", "luck is gated off for this item")
		}
	}
}

func TestRun_TargetRate(t *testing.T) {
	out := render(t, "-source", "zamorak", "-target-rate", "250")
	assert.Contains(t, out, "1/250.00")

	// 1/10 is below Kerapac's floor; reported in the log, not as a failure
	render(t, "-source", "kerapac", "-item", "fractured-staff", "-target-rate", "10")
}

func TestRun_ShippedCatalog(t *testing.T) {
	entries := [][]string{
		{"telos", ""}, {"telos", "seren-godbow"},
		{"arch_glacor", ""}, {"arch_glacor", "leng-artefact"},
		{"zamorak", ""}, {"zamorak", "chaos-roar"},
		{"kerapac", ""}, {"kerapac", "fractured-staff"},
		{"araxxor", ""}, {"araxxor", "araxyte-fang"},
	}
	for _, e := range entries {
		t.Run(e[0]+"/"+e[1], func(t *testing.T) {
			out := render(t, "-source", e[0], "-item", e[1], "-luck", "-pity")
			assert.Contains(t, out, "curve")
		})
	}
}

func TestRun_InvalidEntry(t *testing.T) {
	opts, ov, err := parseFlags([]string{"-source", "telos", "-item", "seren-godbow", "-pity-cap", "5000"}, io.Discard)
	require.NoError(t, err)
	err = run(context.Background(), testConfig(catalogDir), opts, ov, quietLogger(), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pity.cap must be below drop.rate")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_WatchRerenders(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sources", "boss.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("name: Boss\ndrop:\n  rate: 100\n"), 0o644))

	opts, ov, err := parseFlags([]string{"-source", "boss", "-watch"}, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- run(ctx, testConfig(dir), opts, ov, quietLogger(), &out) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Boss: 1/100.00") },
		time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(src, []byte("name: Boss\ndrop:\n  rate: 250\n"), 0o644))
	// keep bumping the mtime in case the watcher primed after the write
	mtime := time.Now()
	require.Eventually(t, func() bool {
		mtime = mtime.Add(time.Second)
		_ = os.Chtimes(src, mtime, mtime)
		return strings.Contains(out.String(), "Boss: 1/250.00")
	}, 2*time.Second, 30*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop after cancel")
	}
}
