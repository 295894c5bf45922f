// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/infracomply/compliance-backend/database"
	"github.com/infracomply/compliance-backend/model"
)

func activeProjects(ctx context.Context, db database.DBConnection) ([]model.Project, error) {
	return database.ActiveProjects(ctx, db.Database)
}

// ResolvePortfolioExposure totals sanctioned exposure across the active book
// with a per-sector breakdown.
func ResolvePortfolioExposure(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	projects, err := activeProjects(ctx, db)
	if err != nil {
		return nil, err
	}

	total := 0.0
	bySector := map[model.Sector]float64{}
	for _, p := range projects {
		total += p.SanctionAmount
		bySector[p.Sector] += p.SanctionAmount
	}

	breakdown := []map[string]interface{}{}
	for _, sector := range []model.Sector{model.SectorHighway, model.SectorPower, model.SectorResidential, model.SectorCRE, model.SectorOther} {
		if exposure, ok := bySector[sector]; ok {
			breakdown = append(breakdown, map[string]interface{}{
				"sector":   string(sector),
				"exposure": exposure,
			})
		}
	}

	return map[string]interface{}{
		"total_exposure":   total,
		"total_projects":   len(projects),
		"sector_breakdown": breakdown,
	}, nil
}

// ResolveRiskDistribution buckets the active book by risk tier for the pie
// chart. All three tiers are always present so the chart legend is stable.
func ResolveRiskDistribution(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	projects, err := activeProjects(ctx, db)
	if err != nil {
		return nil, err
	}

	type slice struct {
		count    int
		exposure float64
	}
	byTier := map[model.RiskTier]*slice{
		model.TierGreen:  {},
		model.TierYellow: {},
		model.TierRed:    {},
	}
	for _, p := range projects {
		if s, ok := byTier[p.RiskTier]; ok {
			s.count++
			s.exposure += p.SanctionAmount
		}
	}

	out := []map[string]interface{}{}
	for _, tier := range []model.RiskTier{model.TierGreen, model.TierYellow, model.TierRed} {
		out = append(out, map[string]interface{}{
			"tier":     string(tier),
			"count":    byTier[tier].count,
			"exposure": byTier[tier].exposure,
		})
	}
	return out, nil
}

// ResolveTopRiskProjects returns the highest-scoring active projects with a
// one-line key issue summarizing what drives the score.
func ResolveTopRiskProjects(db database.DBConnection, limit int) (interface{}, error) {
	ctx := context.Background()

	query := `
		FOR p IN project
			FILTER p.status == @status
			SORT p.risk_score DESC
			LIMIT @limit
			RETURN p
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"status": model.StatusActive,
			"limit":  limit,
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	out := []map[string]interface{}{}
	for cursor.HasMore() {
		var p model.Project
		if _, err := cursor.ReadDocument(ctx, &p); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{
			"key":             p.Key,
			"loan_id":         p.LoanID,
			"borrower_name":   p.BorrowerName,
			"sector":          string(p.Sector),
			"sanction_amount": p.SanctionAmount,
			"risk_score":      p.RiskScore,
			"risk_tier":       string(p.RiskTier),
			"key_issue":       keyIssue(p),
		})
	}
	return out, nil
}

// keyIssue summarizes the dominant risk drivers of a project in one line.
func keyIssue(p model.Project) string {
	issue := ""
	if p.DCCOStatus > 90 {
		issue = fmt.Sprintf("DCCO deferred %d days", p.DCCOStatus)
	}
	if p.ActualCost != nil && *p.ActualCost > p.SanctionAmount*1.1 {
		overrun := (*p.ActualCost - p.SanctionAmount) / p.SanctionAmount * 100
		if issue != "" {
			issue += ", "
		}
		issue += fmt.Sprintf("Cost overrun %.1f%%", overrun)
	}
	if issue == "" {
		issue = "Multiple risk factors"
	}
	return issue
}

// ResolveCreditEventTimeline counts alerts raised in the window, bucketed by
// week starting Sunday.
func ResolveCreditEventTimeline(db database.DBConnection, days int) (interface{}, error) {
	ctx := context.Background()

	since := time.Now().UTC().AddDate(0, 0, -days)
	query := `
		FOR a IN alert
			FILTER a.created_at >= @since
			SORT a.created_at ASC
			RETURN a.created_at
	`
	cursor, err := db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"since": since.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	counts := map[string]int{}
	for cursor.HasMore() {
		var created time.Time
		if _, err := cursor.ReadDocument(ctx, &created); err != nil {
			return nil, err
		}
		weekStart := created.AddDate(0, 0, -int(created.Weekday()))
		counts[weekStart.Format("2006-01-02")]++
	}

	weeks := make([]string, 0, len(counts))
	for w := range counts {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	out := []map[string]interface{}{}
	for _, w := range weeks {
		out = append(out, map[string]interface{}{
			"week_start": w,
			"count":      counts[w],
		})
	}
	return out, nil
}

// ResolveAlertCounts totals alerts by lifecycle status.
func ResolveAlertCounts(db database.DBConnection) (interface{}, error) {
	ctx := context.Background()

	query := `
		RETURN {
			open:         LENGTH(FOR a IN alert FILTER a.status == "Open" RETURN 1),
			acknowledged: LENGTH(FOR a IN alert FILTER a.status == "Acknowledged" RETURN 1),
			resolved:     LENGTH(FOR a IN alert FILTER a.status == "Resolved" RETURN 1),
			dismissed:    LENGTH(FOR a IN alert FILTER a.status == "Dismissed" RETURN 1)
		}
	`
	cursor, err := db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var counts model.AlertCounts
	if cursor.HasMore() {
		if _, err := cursor.ReadDocument(ctx, &counts); err != nil {
			return nil, err
		}
	}
	counts.Total = counts.Open + counts.Acknowledged + counts.Resolved + counts.Dismissed

	return map[string]interface{}{
		"open":         counts.Open,
		"acknowledged": counts.Acknowledged,
		"resolved":     counts.Resolved,
		"dismissed":    counts.Dismissed,
		"total":        counts.Total,
	}, nil
}
