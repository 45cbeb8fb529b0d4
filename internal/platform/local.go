package platform

import (
	"context"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/datastore"
	"github.com/aleister1102/jsminer/internal/models"
	"github.com/aleister1102/jsminer/internal/workerpool"
	"github.com/rs/zerolog"
)

// Local is the CLI host: an in-memory traffic corpus, an SQLite issue store and a shared worker pool.
type Local struct {
	corpus *TrafficCorpus
	store  *datastore.IssueStore
	pool   *workerpool.Pool
	logger zerolog.Logger
}

var _ Client = (*Local)(nil)

// NewLocal wires the host capabilities together. Ownership of store and pool stays with the caller.
func NewLocal(corpus *TrafficCorpus, store *datastore.IssueStore, pool *workerpool.Pool, logger zerolog.Logger) *Local {
	return &Local{
		corpus: corpus,
		store:  store,
		pool:   pool,
		logger: logger.With().Str("component", "LocalPlatform").Logger(),
	}
}

// TrafficForSite implements Client.
func (l *Local) TrafficForSite(site string) ([]models.TrafficRecord, error) {
	records := l.corpus.ForSite(site)
	l.logger.Debug().Str("site", site).Int("records", len(records)).Msg("Traffic lookup")
	return records, nil
}

// ExistingFindings implements Client.
func (l *Local) ExistingFindings(scopePrefix string) ([]models.Finding, error) {
	return l.store.ExistingFindings(scopePrefix)
}

// HasFinding lets the reporter use the store's indexed exact match.
func (l *Local) HasFinding(scopePrefix, name, detail string) (bool, error) {
	return l.store.HasFinding(scopePrefix, name, detail)
}

// Submit implements Client.
func (l *Local) Submit(task Task) {
	if task == nil {
		return
	}
	l.pool.Submit(func(ctx context.Context) { task(ctx) })
}

// ReportFinding implements Client.
func (l *Local) ReportFinding(finding models.Finding) error {
	return l.store.ReportFinding(finding)
}

// ParseURL implements Client.
func (l *Local) ParseURL(raw string) (urlhandler.Target, error) {
	return urlhandler.Parse(raw)
}
