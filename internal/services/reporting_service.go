package services

import (
	"fmt"
	"math"

	"task-manager/internal/domain"
)

const (
	// weeklyWindow is the number of trailing weeks in the weekly series.
	weeklyWindow = 4
	// excellentRate is the completion rate that earns the excellent insight.
	excellentRate = 80
	// backlogThreshold is the number of open high-priority tasks above
	// which the backlog insight is raised.
	backlogThreshold = 5
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	timeService TimeService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(timeService TimeService) ReportingService {
	return &reportingServiceImpl{timeService: timeService}
}

// ActiveCounts counts incomplete tasks per category id. Tasks whose category
// no longer exists are counted under the default category.
func (r *reportingServiceImpl) ActiveCounts(tasks []*domain.Task, categories []*domain.Category) map[string]int {
	known := domain.CategoryIndex(categories)
	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.ID] = 0
	}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		counts[domain.ResolveCategoryID(task.Category, known)]++
	}
	return counts
}

// CategorySummaries pairs every category with its active task count
func (r *reportingServiceImpl) CategorySummaries(tasks []*domain.Task, categories []*domain.Category) []*CategorySummary {
	counts := r.ActiveCounts(tasks, categories)
	summaries := make([]*CategorySummary, 0, len(categories))
	for _, c := range categories {
		summaries = append(summaries, &CategorySummary{
			Category:    c,
			ActiveTasks: counts[c.ID],
		})
	}
	return summaries
}

// Statistics aggregates tasks for the statistics view
func (r *reportingServiceImpl) Statistics(tasks []*domain.Task, categories []*domain.Category) *Statistics {
	stats := &Statistics{Total: len(tasks)}

	for _, task := range tasks {
		if task.Completed {
			stats.Completed++
			continue
		}
		switch task.Priority {
		case domain.PriorityHigh:
			stats.Priorities.High++
		case domain.PriorityMedium:
			stats.Priorities.Medium++
		case domain.PriorityLow:
			stats.Priorities.Low++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	stats.CompletionRate = CompletionRate(stats.Completed, stats.Total)

	stats.Categories = r.categoryStats(tasks, categories)
	stats.Weekly = r.weeklySeries(tasks)
	stats.Daily = r.dailySeries(tasks)
	stats.Insights = insights(stats)
	return stats
}

// CompletionRate returns completed/total as a rounded percentage, or 0 when
// there are no tasks.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// categoryStats counts tasks by their literal category reference.
func (r *reportingServiceImpl) categoryStats(tasks []*domain.Task, categories []*domain.Category) []CategoryStats {
	result := make([]CategoryStats, 0, len(categories))
	for _, c := range categories {
		entry := CategoryStats{CategoryID: c.ID, Name: c.Name, Color: c.Color.OrDefault()}
		for _, task := range tasks {
			if task.Category != c.ID {
				continue
			}
			entry.Total++
			if task.Completed {
				entry.Completed++
			} else {
				entry.Pending++
			}
		}
		result = append(result, entry)
	}
	return result
}

// weeklySeries buckets tasks by the week they were created in, oldest week
// first. The current week is labelled "Week 1".
func (r *reportingServiceImpl) weeklySeries(tasks []*domain.Task) []WeeklyPoint {
	current := r.timeService.CurrentWeek()
	series := make([]WeeklyPoint, 0, weeklyWindow)
	for i := weeklyWindow - 1; i >= 0; i-- {
		week := r.timeService.WeekOf(current.Start.AddDate(0, 0, -7*i))
		point := WeeklyPoint{Label: fmt.Sprintf("Week %d", i+1), Start: week.Start}
		for _, task := range tasks {
			if !week.Contains(task.CreatedAt) {
				continue
			}
			point.Created++
			if task.Completed {
				point.Completed++
			}
		}
		series = append(series, point)
	}
	return series
}

// dailySeries counts, for each day of the current week, the completed tasks
// last updated on that day.
func (r *reportingServiceImpl) dailySeries(tasks []*domain.Task) []DailyPoint {
	week := r.timeService.CurrentWeek()
	series := make([]DailyPoint, 0, 7)
	for day := week.Start; day.Before(week.End); day = day.AddDate(0, 0, 1) {
		bounds := r.timeService.DayOf(day)
		point := DailyPoint{Label: day.Weekday().String()[:3], Date: bounds.Start}
		for _, task := range tasks {
			if task.Completed && bounds.Contains(task.UpdatedAt) {
				point.Completed++
			}
		}
		series = append(series, point)
	}
	return series
}

func insights(stats *Statistics) []Insight {
	result := []Insight{}
	if stats.Total > 0 && stats.CompletionRate >= excellentRate {
		result = append(result, Insight{
			Kind:    InsightExcellent,
			Message: fmt.Sprintf("Excellent work: %d%% of your tasks are done", stats.CompletionRate),
		})
	}
	if stats.Priorities.High > backlogThreshold {
		result = append(result, Insight{
			Kind:    InsightHighPriorityBacklog,
			Message: fmt.Sprintf("%d high priority tasks are still open", stats.Priorities.High),
		})
	}
	if stats.Total > 0 && stats.Pending == 0 {
		result = append(result, Insight{
			Kind:    InsightAllDone,
			Message: "All tasks are complete",
		})
	}
	return result
}
