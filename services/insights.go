package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"member-etl/models"
	"member-etl/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises one run's members. Missing salaries are left out of
// the salary statistics but still counted under BucketNone.
func (s *InsightService) Generate(runID string, members []*models.Member) *models.InsightReport {
	report := &models.InsightReport{
		RunID:          runID,
		GeneratedAt:    time.Now(),
		BucketCounts:   make(map[models.SalaryBucket]int),
		MembersByState: make(map[string]int),
	}

	if len(members) == 0 {
		return report
	}
	report.TotalMembers = len(members)

	var total float64
	var paid int
	for _, m := range members {
		report.BucketCounts[m.SalaryBucket]++
		if st := strings.TrimSpace(m.State); st != "" {
			report.MembersByState[st]++
		}

		if m.SalaryAmount == nil {
			continue
		}
		amount := *m.SalaryAmount
		if paid == 0 || amount < report.MinSalary {
			report.MinSalary = amount
		}
		if paid == 0 || amount > report.MaxSalary {
			report.MaxSalary = amount
			report.HighestPaid = m
		}
		total += amount
		paid++
	}

	if paid > 0 {
		report.AverageSalary = round2(total / float64(paid))
		report.MinSalary = round2(report.MinSalary)
		report.MaxSalary = round2(report.MaxSalary)
	}

	s.logger.Debug("[insights] run %s: %d members, %d with salary", runID, report.TotalMembers, paid)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", sep)
	fmt.Fprintf(w, "  MEMBER ETL SUMMARY  (run %s)\n", r.RunID)
	fmt.Fprintf(w, "%s\n\n", sep)

	fmt.Fprintf(w, "  Overview\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Members written : %d\n\n", r.TotalMembers)

	fmt.Fprintf(w, "  Salary buckets\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, b := range []models.SalaryBucket{models.BucketA, models.BucketB, models.BucketC, models.BucketNone} {
		label := string(b)
		if b == models.BucketNone {
			label = "-"
		}
		fmt.Fprintf(w, "  %-2s %-30s %d\n", label, strings.Repeat("█", min(r.BucketCounts[b], 30)), r.BucketCounts[b])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Salary statistics\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.HighestPaid != nil {
		fmt.Fprintf(w, "  Average : $%.2f\n", r.AverageSalary)
		fmt.Fprintf(w, "  Minimum : $%.2f\n", r.MinSalary)
		fmt.Fprintf(w, "  Maximum : $%.2f (%s)\n", r.MaxSalary, truncate(r.HighestPaid.FullName, 30))
	} else {
		fmt.Fprintf(w, "  No salary data available\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Members by state\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.MembersByState) == 0 {
		fmt.Fprintf(w, "  No state data\n")
	} else {
		type stateCount struct {
			state string
			count int
		}
		var states []stateCount
		for st, cnt := range r.MembersByState {
			states = append(states, stateCount{st, cnt})
		}
		sort.Slice(states, func(i, j int) bool {
			if states[i].count != states[j].count {
				return states[i].count > states[j].count
			}
			return states[i].state < states[j].state
		})
		for _, sc := range states {
			fmt.Fprintf(w, "  %-10s %d\n", truncate(sc.state, 10), sc.count)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
