package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
)

// groupByRootDomain counts findings per root domain and finding name.
// IP literals and single-label hosts group under the host itself.
func groupByRootDomain(findings []models.Finding) map[string]map[string]int {
	groups := make(map[string]map[string]int)
	for _, f := range findings {
		domain, ok := urlhandler.RootDomain(f.EvidenceTarget.Host)
		if !ok {
			domain = f.EvidenceTarget.Host
		}
		if groups[domain] == nil {
			groups[domain] = make(map[string]int)
		}
		groups[domain][f.Name]++
	}
	return groups
}

// findingsForScan keeps the findings first reported by the given scan.
func findingsForScan(findings []models.Finding, scanID string) []models.Finding {
	var out []models.Finding
	for _, f := range findings {
		if f.ScanID == scanID {
			out = append(out, f)
		}
	}
	return out
}

func writeSummary(w io.Writer, findings []models.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	groups := groupByRootDomain(findings)
	domains := make([]string, 0, len(groups))
	for d := range groups {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	fmt.Fprintf(w, "%d findings across %d domains\n", len(findings), len(domains))
	for _, d := range domains {
		fmt.Fprintf(w, "\n%s\n", d)
		names := make([]string, 0, len(groups[d]))
		for name := range groups[d] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-28s %d\n", name, groups[d][name])
		}
	}
}
