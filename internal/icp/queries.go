package icp

import (
	"fmt"
	"strings"
)

const maxQueries = 5

// SearchQueries derives web-search query strings from the profile for a
// lead-sourcing collaborator to run. Deterministic; at most five
// queries, most specific signals first.
func SearchQueries(p Profile) []string {
	var queries []string
	add := func(q string) {
		if q = strings.Join(strings.Fields(q), " "); q != "" {
			queries = append(queries, q)
		}
	}

	if p.Industry != "" && p.CompanySize != "" {
		add(fmt.Sprintf("%s companies %s %s", p.Industry, p.CompanySize, p.Geography))
	}

	if p.Industry != "" {
		for i, tech := range p.TechStack {
			if i == 2 {
				break
			}
			add(fmt.Sprintf("%s companies using %s %s", p.Industry, tech, p.Geography))
		}
		if len(p.JobTitles) > 0 {
			add(fmt.Sprintf("%s companies hiring %s %s", p.Industry, p.JobTitles[0], p.Geography))
		}
	}

	for _, signal := range p.IntentSignals {
		if strings.Contains(strings.ToLower(signal), "funding") {
			add(fmt.Sprintf("%s companies recent funding %s", p.Industry, p.Geography))
			break
		}
	}

	if p.GrowthStage != "" && p.Industry != "" {
		add(fmt.Sprintf("%s %s companies %s", p.GrowthStage, p.Industry, p.Geography))
	}

	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}
