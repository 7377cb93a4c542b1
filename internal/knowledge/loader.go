package knowledge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	apperrors "medibot/internal/common/errors"
	"medibot/internal/common/logger"
	"medibot/internal/common/metrics"
)

// Loader reads the two knowledge documents and builds snapshots.
type Loader struct {
	SymptomsPath string
	TopicsPath   string

	log logger.Logger
	now func() time.Time
}

func NewLoader(symptomsPath, topicsPath string, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Loader{
		SymptomsPath: symptomsPath,
		TopicsPath:   topicsPath,
		log:          log,
		now:          time.Now,
	}
}

// Load builds a snapshot. A table that cannot be read, parsed or yields no
// valid entries is replaced: by prev's table when prev holds one loaded from
// disk, otherwise by the built-in defaults. Load never fails.
func (l *Loader) Load(prev *Snapshot) *Snapshot {
	symptoms, symSrc := l.loadSymptoms(prev)
	topics, topSrc := l.loadTopics(prev)

	snap := NewSnapshot(symptoms, topics, l.now())
	snap.Sources[TableSymptoms] = symSrc
	snap.Sources[TableTopics] = topSrc
	return snap
}

func (l *Loader) loadSymptoms(prev *Snapshot) ([]SymptomRecord, Source) {
	entries, err := l.readTable(TableSymptoms, l.SymptomsPath)
	if err == nil {
		records, rejections := sanitizeSymptoms(entries)
		l.reportRejections(TableSymptoms, rejections)
		if len(records) > 0 {
			return records, Source{Path: l.SymptomsPath, Entries: len(records)}
		}
		err = apperrors.NewKnowledgeParseFailedError(TableSymptoms, l.SymptomsPath, errors.New("no valid entries"))
	}

	if prev != nil && !prev.Sources[TableSymptoms].Fallback && len(prev.Symptoms) > 0 {
		l.reportFallback(TableSymptoms, err, "previous")
		src := prev.Sources[TableSymptoms]
		src.Stale = true
		return prev.Symptoms, src
	}
	l.reportFallback(TableSymptoms, err, "defaults")
	records := DefaultSymptoms()
	return records, Source{Path: l.SymptomsPath, Fallback: true, Entries: len(records)}
}

func (l *Loader) loadTopics(prev *Snapshot) ([]TopicRecord, Source) {
	entries, err := l.readTable(TableTopics, l.TopicsPath)
	if err == nil {
		records, rejections := sanitizeTopics(entries)
		l.reportRejections(TableTopics, rejections)
		if len(records) > 0 {
			return records, Source{Path: l.TopicsPath, Entries: len(records)}
		}
		err = apperrors.NewKnowledgeParseFailedError(TableTopics, l.TopicsPath, errors.New("no valid entries"))
	}

	if prev != nil && !prev.Sources[TableTopics].Fallback && len(prev.Topics) > 0 {
		l.reportFallback(TableTopics, err, "previous")
		src := prev.Sources[TableTopics]
		src.Stale = true
		return prev.Topics, src
	}
	l.reportFallback(TableTopics, err, "defaults")
	records := DefaultTopics()
	return records, Source{Path: l.TopicsPath, Fallback: true, Entries: len(records)}
}

func (l *Loader) readTable(table, path string) ([]rawEntry, error) {
	if path == "" {
		return nil, apperrors.NewKnowledgeFileMissingError(table, path, errors.New("no path configured"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewKnowledgeFileMissingError(table, path, err)
		}
		return nil, apperrors.NewKnowledgeFileMissingError(table, path, fmt.Errorf("unreadable: %w", err))
	}

	entries, err := decodeDocument(path, data)
	if err != nil {
		return nil, apperrors.NewKnowledgeParseFailedError(table, path, err)
	}
	return entries, nil
}

func (l *Loader) reportFallback(table string, err error, replacement string) {
	stdErr := apperrors.AsStandardError(err)
	metrics.KnowledgeFallbacks.WithLabelValues(table, string(stdErr.Code)).Inc()
	l.log.Warn("Knowledge table unavailable", map[string]interface{}{
		"table":       table,
		"errorCode":   string(stdErr.Code),
		"details":     stdErr.Details,
		"replacement": replacement,
	})
}

func (l *Loader) reportRejections(table string, rejections []Rejection) {
	for _, r := range rejections {
		metrics.KnowledgeRecordsRejected.WithLabelValues(table, r.Action).Inc()
		stdErr := apperrors.NewKnowledgeRecordInvalidError(table, r.Key, r.Reason)
		l.log.Warn("Knowledge entry "+r.Action, map[string]interface{}{
			"table":     table,
			"key":       r.Key,
			"errorCode": string(stdErr.Code),
			"reason":    r.Reason,
		})
	}
}
