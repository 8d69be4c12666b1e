package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderwatch/tenderwatch-api/internal/domain/model"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"migrate", "db-seed", "dispatch-alerts", "alert-logs", "saved-searches", "import-tenders"} {
		cmd, ok := commands()[name]
		require.True(t, ok, name)
		assert.Equal(t, name, cmd.name)
		assert.NotNil(t, cmd.run)
	}

	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	out := buf.String()
	assert.Less(t, strings.Index(out, "alert-logs"), strings.Index(out, "saved-searches"), "usage is sorted")
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)
	assert.False(t, opts.Status)

	opts, err = parseMigrateFlags([]string{"-status"})
	require.NoError(t, err)
	assert.True(t, opts.Status)

	_, err = parseMigrateFlags([]string{"-timeout", "0s"})
	require.ErrorContains(t, err, "--timeout")
}

func TestParseDispatchFlags(t *testing.T) {
	opts, err := parseDispatchFlags([]string{"-limit", "25"})
	require.NoError(t, err)
	assert.Equal(t, 25, opts.Limit)
	assert.Equal(t, defaultDispatchTimeout, opts.Timeout)

	_, err = parseDispatchFlags([]string{"-limit", "-1"})
	require.Error(t, err)

	_, err = parseDispatchFlags([]string{"-query", "emails[["})
	require.ErrorContains(t, err, "invalid --query")
}

func TestParseListFlags(t *testing.T) {
	opts, err := parseAlertLogsFlags([]string{"-saved-search", "ss-1", "-limit", "10"})
	require.NoError(t, err)
	assert.Equal(t, "ss-1", opts.SavedSearchID)
	assert.Equal(t, 10, opts.Limit)

	_, err = parseAlertLogsFlags([]string{"-limit", "0"})
	require.Error(t, err)

	ss, err := parseSavedSearchesFlags([]string{"-user", "u-1", "-query", "[].name"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", ss.UserID)
	assert.Equal(t, defaultListLimit, ss.Limit)

	_, err = parseSavedSearchesFlags([]string{"-offset", "-3"})
	require.Error(t, err)
}

func TestParseImportTendersFlags(t *testing.T) {
	_, err := parseImportTendersFlags(nil)
	require.ErrorContains(t, err, "--file")

	opts, err := parseImportTendersFlags([]string{"-file", "-", "-batch", "2"})
	require.NoError(t, err)
	assert.Equal(t, "-", opts.File)
	assert.Equal(t, 2, opts.BatchSize)
}

func TestPrintJSON(t *testing.T) {
	res := model.DispatchResult{Processed: 3, Emails: 2, TotalFound: 7}

	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, res, ""))
	assert.Contains(t, buf.String(), `"totalFound": 7`)

	buf.Reset()
	require.NoError(t, printJSON(&buf, res, "emails"))
	assert.Equal(t, "2\n", buf.String())

	buf.Reset()
	logs := []map[string]any{{"status": "sent", "tenderCount": 2}, {"status": "failed", "tenderCount": 0}}
	require.NoError(t, printJSON(&buf, logs, "[?status=='failed'] | length(@)"))
	assert.Equal(t, "1\n", buf.String())
}

func TestReadTenders(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		got, err := readTenders(strings.NewReader(`  [
			{"ocid":"a","title":"Roads","publishedAt":"2026-01-02T00:00:00Z"},
			{"ocid":"b","title":"Bridges","publishedAt":"2026-01-03T00:00:00Z"}
		]`))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[1].OCID)
		assert.Equal(t, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), got[1].PublishedAt.UTC())
	})

	t.Run("json lines", func(t *testing.T) {
		got, err := readTenders(strings.NewReader(
			"{\"ocid\":\"a\",\"title\":\"Roads\"}\n{\"ocid\":\"b\",\"title\":\"Bridges\"}\n"))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Roads", got[0].Title)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := readTenders(strings.NewReader("\n  \n"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := readTenders(strings.NewReader(`{"ocid":"a","budget":10}`))
		require.ErrorContains(t, err, "decode tender 1")
	})
}

type recordingLoader struct {
	batches []int
	failAt  int
}

func (r *recordingLoader) UpsertBatch(_ context.Context, reqs []*model.UpsertTenderRequest) (int, error) {
	r.batches = append(r.batches, len(reqs))
	if r.failAt > 0 && len(r.batches) == r.failAt {
		return 0, errors.New("constraint violation")
	}
	return len(reqs), nil
}

func TestImportTenders(t *testing.T) {
	tenders := make([]*model.UpsertTenderRequest, 5)
	for i := range tenders {
		tenders[i] = &model.UpsertTenderRequest{OCID: string(rune('a' + i))}
	}

	loader := &recordingLoader{}
	n, err := importTenders(context.Background(), loader, tenders, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{2, 2, 1}, loader.batches)

	loader = &recordingLoader{failAt: 2}
	n, err = importTenders(context.Background(), loader, tenders, 2)
	require.ErrorContains(t, err, "import tenders 3-4")
	assert.Equal(t, 2, n)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := map[string]bool{
		"":                    false,
		"localhost":           false,
		"127.0.0.1":           false,
		"::1":                 false,
		"db.local":            false,
		"10.0.4.12":           true,
		"db.prod.example.com": true,
		" LOCALHOST ":         false,
	}
	for host, want := range tests {
		assert.Equal(t, want, isLikelyRemoteHost(host), host)
	}
}

func TestRequireRemoteHostConfirmation(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, requireRemoteHostConfirmation(strings.NewReader("db.example.com\n"), &out, "seed data", "db.example.com"))
	assert.Contains(t, out.String(), "does not look like a local address")

	err := requireRemoteHostConfirmation(strings.NewReader("\n"), &out, "seed data", "db.example.com")
	require.ErrorContains(t, err, "aborted")
}
