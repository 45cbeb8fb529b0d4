package models

import (
	"time"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/google/uuid"
)

// ScanRequest drives which task families a scan dispatches. Immutable after construction.
type ScanRequest struct {
	ID                      string
	Target                  urlhandler.Target
	SourceMapEnabled        bool
	InterestingStuffEnabled bool
	StartedAt               time.Time
}

// NewScanRequest stamps a request with a fresh ID and the given start time.
func NewScanRequest(target urlhandler.Target, sourceMapEnabled, interestingStuffEnabled bool, startedAt time.Time) ScanRequest {
	return ScanRequest{
		ID:                      uuid.NewString(),
		Target:                  target,
		SourceMapEnabled:        sourceMapEnabled,
		InterestingStuffEnabled: interestingStuffEnabled,
		StartedAt:               startedAt,
	}
}

// Timestamp returns the start time in epoch milliseconds; all findings of one
// scan run share it.
func (r ScanRequest) Timestamp() int64 {
	return r.StartedAt.UnixMilli()
}
