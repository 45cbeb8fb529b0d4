package platform

import (
	"context"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
)

// Task is fire-and-forget work handed to the host's shared pool.
type Task func(ctx context.Context)

// Client is the capability surface the scan core needs from its host.
type Client interface {
	// TrafficForSite returns observed traffic whose canonical URL starts with site.
	TrafficForSite(site string) ([]models.TrafficRecord, error)
	// ExistingFindings returns findings whose evidence URL starts with scopePrefix.
	ExistingFindings(scopePrefix string) ([]models.Finding, error)
	Submit(task Task)
	ReportFinding(finding models.Finding) error
	ParseURL(raw string) (urlhandler.Target, error)
}
