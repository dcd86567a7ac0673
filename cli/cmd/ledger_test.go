package cmd

import (
	"os"
	"testing"

	"github.com/justapithecus/lode/lode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/seedbank/ledger"
	"github.com/pithecene-io/seedbank/notify"
)

// ledgerRecords returns every record of the given kind across all snapshots.
func ledgerRecords(t *testing.T, root, kind string) []map[string]any {
	t.Helper()
	ds, err := ledger.NewReadDataset(lode.NewFSFactory(root))
	require.NoError(t, err)
	snapshots, err := ds.Snapshots(t.Context())
	require.NoError(t, err)

	var out []map[string]any
	for _, snap := range snapshots {
		data, err := ds.Read(t.Context(), snap.ID)
		require.NoError(t, err)
		for _, item := range data {
			record, ok := item.(map[string]any)
			if ok && record["record_kind"] == kind {
				out = append(out, record)
			}
		}
	}
	return out
}

func latestSummary(t *testing.T, root string) *ledger.SummaryRecord {
	t.Helper()
	ds, err := ledger.NewReadDataset(lode.NewFSFactory(root))
	require.NoError(t, err)
	record, err := ledger.LatestSummary(t.Context(), ds, "", "")
	require.NoError(t, err)
	return record
}

func TestLedger_RecordsAcceptedActivities(t *testing.T) {
	svc, srv := newFakeService(t)
	svc.failBatch = 2
	path := writeActivities(t, t.TempDir(), 45)
	root := t.TempDir()

	err := newTestApp().Run([]string{"seedbank", "activities", "--api-url", srv.URL,
		"--ledger-path", root, "--quiet", path})
	requireExitFailure(t, err)

	activities := ledgerRecords(t, root, ledger.RecordKindActivity)
	assert.Len(t, activities, 20, "only the first accepted chunk is recorded")
	assert.Equal(t, "Activity 0", activities[0]["description"])

	summary := latestSummary(t, root)
	assert.Equal(t, "activities", summary.Command)
	assert.Equal(t, notify.OutcomeFailure, summary.Outcome)
	assert.Contains(t, summary.Error, "status 500")
	assert.Equal(t, int64(20), summary.ActivitiesUploaded)
	assert.Equal(t, int64(1), summary.ChunksFailed)
}

func TestLedger_RecordsReactionsAndQuestions(t *testing.T) {
	_, srv := newFakeService(t)
	dir := t.TempDir()
	writeReactions(t, dir, "like", "love")
	root := t.TempDir()

	err := newTestApp().Run([]string{"seedbank", "reactions", "--api-url", srv.URL,
		"--ledger-path", root, "--quiet", dir})
	require.NoError(t, err)

	reactions := ledgerRecords(t, root, ledger.RecordKindReaction)
	require.Len(t, reactions, 2)
	assert.Equal(t, "like", reactions[0]["name"])

	err = newTestApp().Run([]string{"seedbank", "questions", "--api-url", srv.URL, "-m", "2",
		"--ledger-path", root, "--quiet"})
	require.NoError(t, err)

	summary := latestSummary(t, root)
	assert.Equal(t, "questions", summary.Command)
	assert.Equal(t, notify.OutcomeSuccess, summary.Outcome)
	assert.Equal(t, int64(2), summary.QuestionsCreated)
	assert.Len(t, ledgerRecords(t, root, ledger.RecordKindSummary), 2)
}

func TestLedger_DisabledWithoutPath(t *testing.T) {
	_, srv := newFakeService(t)
	dir := t.TempDir()
	t.Chdir(dir)

	err := newTestApp().Run([]string{"seedbank", "questions", "--api-url", srv.URL, "-m", "1", "--quiet"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no ledger files without --ledger-path")
}

func TestLedger_UnknownBackendIsConfigError(t *testing.T) {
	svc, srv := newFakeService(t)

	err := newTestApp().Run([]string{"seedbank", "questions", "--api-url", srv.URL,
		"--ledger-backend", "gcs", "--ledger-path", t.TempDir(), "--quiet"})
	requireExitFailure(t, err)
	assert.Contains(t, err.Error(), "unknown ledger backend")
	assert.Zero(t, svc.total())
}

func TestSummaryCommand(t *testing.T) {
	_, srv := newFakeService(t)
	root := t.TempDir()

	err := newTestApp().Run([]string{"seedbank", "summary", "--ledger-path", root, "--format", "json"})
	requireExitFailure(t, err)

	err = newTestApp().Run([]string{"seedbank", "questions", "--api-url", srv.URL, "-m", "1",
		"--ledger-path", root, "--quiet"})
	require.NoError(t, err)

	err = newTestApp().Run([]string{"seedbank", "summary", "--ledger-path", root, "--format", "json",
		"--run-command", "questions"})
	require.NoError(t, err)
}

func TestSummaryCommand_RequiresLedgerPath(t *testing.T) {
	err := newTestApp().Run([]string{"seedbank", "summary"})
	requireExitFailure(t, err)
	assert.Contains(t, err.Error(), "--ledger-path is required")
}
