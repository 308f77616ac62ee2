package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var stepHeader = []string{
	"episode_id", "step", "time", "instrument", "proposed", "final",
	"allowed", "multiplier", "session_mult", "news_mult",
	"correlation_mult", "unified_mult", "crossmarket_mult",
	"principles_mult", "scenario_mult", "blocks",
}

var episodeHeader = []string{
	"id", "instrument", "start_time", "end_time", "steps", "blocked", "created_at",
}

// CSV writes steps and episodes to two side-by-side files. Rows are
// flushed per record so a crashed run still leaves usable output.
type CSV struct {
	stepsFile    *os.File
	episodesFile *os.File
	steps        *csv.Writer
	episodes     *csv.Writer
}

// OpenCSV creates (truncating) stepsPath and episodesPath and writes
// their headers.
func OpenCSV(stepsPath, episodesPath string) (*CSV, error) {
	sf, err := os.Create(stepsPath)
	if err != nil {
		return nil, fmt.Errorf("journal: create %s: %w", stepsPath, err)
	}
	ef, err := os.Create(episodesPath)
	if err != nil {
		sf.Close()
		return nil, fmt.Errorf("journal: create %s: %w", episodesPath, err)
	}

	j := &CSV{
		stepsFile:    sf,
		episodesFile: ef,
		steps:        csv.NewWriter(sf),
		episodes:     csv.NewWriter(ef),
	}
	if err := j.steps.Write(stepHeader); err != nil {
		j.Close()
		return nil, err
	}
	if err := j.episodes.Write(episodeHeader); err != nil {
		j.Close()
		return nil, err
	}
	j.steps.Flush()
	j.episodes.Flush()
	return j, nil
}

func (j *CSV) RecordStep(r StepRecord) error {
	row := []string{
		r.EpisodeID,
		strconv.Itoa(r.Step),
		r.Time.UTC().Format(time.RFC3339),
		r.Instrument,
		f(r.Proposed), f(r.Final),
		strconv.FormatBool(r.Allowed),
		f(r.Multiplier),
		f(r.SessionMult), f(r.NewsMult), f(r.CorrelationMult),
		f(r.UnifiedMult), f(r.CrossMarketMult), f(r.PrinciplesMult),
		f(r.ScenarioMult),
		r.Blocks,
	}
	if err := j.steps.Write(row); err != nil {
		return err
	}
	j.steps.Flush()
	return j.steps.Error()
}

func (j *CSV) RecordEpisode(r EpisodeRecord) error {
	row := []string{
		r.ID,
		r.Instrument,
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
		strconv.Itoa(r.Steps),
		strconv.Itoa(r.Blocked),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := j.episodes.Write(row); err != nil {
		return err
	}
	j.episodes.Flush()
	return j.episodes.Error()
}

func (j *CSV) Close() error {
	j.steps.Flush()
	j.episodes.Flush()
	err := j.stepsFile.Close()
	if err2 := j.episodesFile.Close(); err == nil {
		err = err2
	}
	return err
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
