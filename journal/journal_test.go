package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/fxsim/sizing"
)

func sampleStep(episode string, step int, allowed bool) StepRecord {
	blocks := ""
	if !allowed {
		blocks = "news"
	}
	return StepRecord{
		EpisodeID:       episode,
		Step:            step,
		Time:            time.Date(2024, 3, 6, 10+step, 0, 0, 0, time.UTC),
		Instrument:      "EUR_USD",
		Proposed:        10000,
		Final:           4800,
		Allowed:         allowed,
		Multiplier:      0.48,
		SessionMult:     1.2,
		NewsMult:        0.8,
		CorrelationMult: 0.5,
		UnifiedMult:     1.0,
		CrossMarketMult: 1.0,
		PrinciplesMult:  1.0,
		ScenarioMult:    1.0,
		Blocks:          blocks,
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := OpenSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordStep(sampleStep("ep1", 0, true)))
	require.NoError(t, j.RecordStep(sampleStep("ep1", 1, false)))
	require.NoError(t, j.RecordStep(sampleStep("ep2", 0, true)))

	require.NoError(t, j.RecordEpisode(EpisodeRecord{
		ID:         "ep1",
		Instrument: "EUR_USD",
		Start:      time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 6, 11, 0, 0, 0, time.UTC),
		Steps:      2,
		Blocked:    1,
		CreatedAt:  time.Date(2024, 3, 6, 11, 0, 1, 0, time.UTC),
	}))

	steps, err := j.StepsByEpisode("ep1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 0, steps[0].Step)
	assert.Equal(t, 1.2, steps[0].SessionMult)
	assert.True(t, steps[0].Allowed)
	assert.False(t, steps[1].Allowed)
	assert.Equal(t, "news", steps[1].Blocks)
	assert.Equal(t, time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC), steps[0].Time)

	blocked, err := j.BlockedSteps()
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "ep1", blocked[0].EpisodeID)

	episodes, err := j.Episodes()
	require.NoError(t, err)
	require.Len(t, episodes, 1)
	assert.Equal(t, 2, episodes[0].Steps)
	assert.Equal(t, 1, episodes[0].Blocked)
}

func TestSQLiteDuplicateStepRejected(t *testing.T) {
	t.Parallel()

	j, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordStep(sampleStep("ep1", 0, true)))
	assert.Error(t, j.RecordStep(sampleStep("ep1", 0, true)))
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stepsPath := filepath.Join(dir, "steps.csv")
	episodesPath := filepath.Join(dir, "episodes.csv")

	j, err := OpenCSV(stepsPath, episodesPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordStep(sampleStep("ep1", 0, true)))
	require.NoError(t, j.RecordEpisode(EpisodeRecord{ID: "ep1", Instrument: "EUR_USD"}))
	require.NoError(t, j.Close())

	sf, err := os.Open(stepsPath)
	require.NoError(t, err)
	defer sf.Close()

	rows, err := csv.NewReader(sf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, stepHeader, rows[0])
	assert.Equal(t, "ep1", rows[1][0])
	assert.Equal(t, "EUR_USD", rows[1][3])
	assert.Equal(t, "0.48", rows[1][7])
}

func TestFlattenStep(t *testing.T) {
	t.Parallel()

	d := sizing.Decision{
		Instrument: "EUR_USD",
		Time:       time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
		Proposed:   10000,
		Final:      0,
		Allowed:    false,
		Multiplier: 0.6,
		Blocks:     []string{"session", "news"},
		Components: []sizing.ComponentResult{
			{Name: sizing.SlotSession, Active: true, Multiplier: 0.5},
			{Name: sizing.SlotNews, Active: true, Multiplier: 0.8},
			{Name: sizing.SlotCorrelation, Multiplier: 1.0},
			{Name: sizing.SlotUnified, Multiplier: 1.0},
			{Name: sizing.SlotCrossMarket, Multiplier: 1.0},
			{Name: sizing.SlotPrinciples, Multiplier: 1.0},
			{Name: sizing.SlotScenario, Multiplier: 1.0},
		},
	}

	rec := FlattenStep("ep1", 7, d)
	assert.Equal(t, "ep1", rec.EpisodeID)
	assert.Equal(t, 7, rec.Step)
	assert.Equal(t, 0.5, rec.SessionMult)
	assert.Equal(t, 0.8, rec.NewsMult)
	assert.Equal(t, "session+news", rec.Blocks)
	assert.False(t, rec.Allowed)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordStep(StepRecord{}))
	assert.NoError(t, j.RecordEpisode(EpisodeRecord{}))
	assert.NoError(t, j.Close())
}
