// Package icp ranks prospect companies against an Ideal Customer
// Profile using fixed, rule-based sub-scores. Nothing here is learned
// or probabilistic: the same inputs always produce the same ranking.
package icp

import (
	"regexp"
	"strconv"
)

// Profile is the target the scorer ranks candidates against.
type Profile struct {
	Industry      string   `json:"industry"`
	CompanySize   string   `json:"company_size"`
	RevenueRange  string   `json:"revenue_range"`
	Geography     string   `json:"geography"`
	GrowthStage   string   `json:"growth_stage,omitempty"`
	TechStack     []string `json:"tech_stack,omitempty"`
	JobTitles     []string `json:"job_titles,omitempty"`
	IntentSignals []string `json:"intent_signals,omitempty"`
}

// DecisionMaker is one contact at a candidate company.
type DecisionMaker struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Email string `json:"email,omitempty"`
}

// Lead is one prospect record from a lead-sourcing collaborator.
type Lead struct {
	CompanyName     string          `json:"company_name"`
	Website         string          `json:"website,omitempty"`
	Industry        string          `json:"industry,omitempty"`
	EmployeeCount   int             `json:"employee_count,omitempty"`
	RevenueEstimate string          `json:"revenue_estimate,omitempty"`
	Location        string          `json:"location,omitempty"`
	TechStack       []string        `json:"tech_stack,omitempty"`
	RecentActivity  []string        `json:"recent_activity,omitempty"`
	DecisionMakers  []DecisionMaker `json:"decision_makers,omitempty"`
}

var sizeDigits = regexp.MustCompile(`\d+`)

// midpointSize extracts a representative employee count from a size
// range like "50-200". A single number stands for itself; an
// unparseable or empty range defaults to 100.
func midpointSize(sizeRange string) int {
	nums := sizeDigits.FindAllString(sizeRange, 2)
	switch len(nums) {
	case 2:
		lo, _ := strconv.Atoi(nums[0])
		hi, _ := strconv.Atoi(nums[1])
		return (lo + hi) / 2
	case 1:
		n, _ := strconv.Atoi(nums[0])
		return n
	default:
		return 100
	}
}
