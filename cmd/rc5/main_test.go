package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"rc5-go/pkg/log"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"rc5", "--log-level", "error"}, args...))
	return out.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestEncryptDecryptCommands(t *testing.T) {
	out, err := run(t, "encrypt", "--key", strings.Repeat("00", 16), "0000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "21A5DBEE154B8F6D\n", out)

	out, err = run(t, "decrypt", "-v", "8-12-4", "--key", "00010203", "212A")
	require.NoError(t, err)
	assert.Equal(t, "0001\n", out)

	_, err = run(t, "encrypt", "--key", "0001", "0000000000000000")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "invalid key length")

	_, err = run(t, "encrypt", "-v", "RC5-99/1/1", "--key", "00", "00")
	assert.Equal(t, 1, exitCode(err))
}

func TestVariantsAndSelftest(t *testing.T) {
	out, err := run(t, "variants")
	require.NoError(t, err)
	for _, name := range []string{"RC5-8/12/4", "RC5-16/16/8", "RC5-32/12/16", "RC5-32/20/16", "RC5-64/24/24"} {
		assert.Contains(t, out, name)
	}

	out, err = run(t, "selftest")
	require.NoError(t, err)
	assert.Contains(t, out, "all 9 vectors passed")

	out, err = run(t, "selftest", "-v", "32/20/16")
	require.NoError(t, err)
	assert.Contains(t, out, "all 1 vectors passed")
}

func TestRoundtripCommand(t *testing.T) {
	out, err := run(t, "roundtrip", "-v", "16-16-8", "-n", "300", "-w", "3", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "RC5-16/16/8: 300 blocks, 3 workers (per-key), seed 5")
	assert.Contains(t, out, "no failures")

	out, err = run(t, "roundtrip", "-n", "50", "--seed", "5", "--shared", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"shared": true`)
}

func TestBenchCommand(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "bench.csv")
	out, err := run(t, "bench", "-v", "32-20-16", "--op", "decrypt", "-n", "50", "-o", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "RC5-32/20/16 decrypt (8-byte block)")
	assert.Contains(t, out, "Throughput:")
	assert.FileExists(t, csvPath)

	_, err = run(t, "bench", "--op", "hash")
	assert.Equal(t, 1, exitCode(err))
}

func TestCorpusCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.jsonl.zst")
	out, err := run(t, "corpus", "gen", "-v", "64-24-24", "-n", "20", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 20 RC5-64/24/24 records")

	out, err = run(t, "corpus", "verify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "verified 20 records")

	_, err = run(t, "corpus", "verify")
	assert.Equal(t, 1, exitCode(err))
}

func TestLogDatabaseRoundTrip(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rc5.db")
	corpusPath := filepath.Join(t.TempDir(), "c.jsonl")

	_, err := run(t, "--log-level", "info", "--log-db", db, "corpus", "gen", "-n", "2", "-o", corpusPath)
	require.NoError(t, err)

	out, err := run(t, "logs", "--dbfile", db, "-n", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "corpus written")

	out, err = run(t, "logs", "--dbfile", db, "--since", "-s", "1h", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "INFO  corpus written")
	assert.Contains(t, out, "records=2")

	_, err = run(t, "logs", "--dbfile", db, "--since", "--between")
	assert.Equal(t, 1, exitCode(err))
}

func TestParseTimeSpec(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"30m":                  now.Add(-30 * time.Minute),
		"2d":                   now.Add(-48 * time.Hour),
		"1w":                   now.Add(-7 * 24 * time.Hour),
		"2024-05-01T15:04:05Z": time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC),
	}
	for spec, want := range cases {
		got, err := parseTimeSpec(spec, now)
		require.NoError(t, err, spec)
		assert.True(t, want.Equal(got), "%s: got %v want %v", spec, got, want)
	}

	got, err := parseTimeSpec("2024-05-01", now)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local).Equal(got), "got %v", got)

	for _, bad := range []string{"", "yesterday", "xd", "-1d"} {
		_, err := parseTimeSpec(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestPrettyEntry(t *testing.T) {
	e := log.LogEntry{LogData: `{"level":"warn","time":"T","message":"m","b":2,"a":"x"}` + "\n"}
	assert.Equal(t, "T WARN  m a=x b=2", prettyEntry(e))

	raw := log.LogEntry{LogData: "not json\n"}
	assert.Equal(t, "not json", prettyEntry(raw))
}
