package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		expected  int
	}{
		{name: "should be zero without tasks", completed: 0, total: 0, expected: 0},
		{name: "should round one of three down", completed: 1, total: 3, expected: 33},
		{name: "should round two of three up", completed: 2, total: 3, expected: 67},
		{name: "should be one hundred when all are done", completed: 4, total: 4, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompletionRate(tt.completed, tt.total))
		})
	}
}

func TestReportingService_ActiveCounts(t *testing.T) {
	categories := domain.DefaultCategories(fixedNow)
	tasks := []*domain.Task{
		{ID: "a", Category: "1"},
		{ID: "b", Category: "2"},
		{ID: "c", Category: "2", Completed: true},
		{ID: "d", Category: "gone"},
	}
	svc := NewReportingService(newTestTimeService())

	counts := svc.ActiveCounts(tasks, categories)

	assert.Equal(t, map[string]int{"1": 2, "2": 1, "3": 0}, counts)

	summaries := svc.CategorySummaries(tasks, categories)
	require.Len(t, summaries, 3)
	assert.Equal(t, "General", summaries[0].Category.Name)
	assert.Equal(t, 2, summaries[0].ActiveTasks)
	assert.Equal(t, 0, summaries[2].ActiveTasks)
}

func TestReportingService_Statistics(t *testing.T) {
	categories := domain.DefaultCategories(fixedNow)
	svc := NewReportingService(newTestTimeService())

	tests := []struct {
		name          string
		tasks         []*domain.Task
		expectedStats func(t *testing.T, stats *Statistics)
	}{
		{
			name:  "should report zeros for an empty collection",
			tasks: nil,
			expectedStats: func(t *testing.T, stats *Statistics) {
				assert.Equal(t, 0, stats.Total)
				assert.Equal(t, 0, stats.CompletionRate)
				assert.Empty(t, stats.Insights)
				assert.Len(t, stats.Weekly, 4)
				assert.Len(t, stats.Daily, 7)
			},
		},
		{
			name: "should count totals and the priority histogram over open tasks",
			tasks: []*domain.Task{
				{ID: "1", Priority: domain.PriorityHigh, Category: "1", CreatedAt: fixedNow, UpdatedAt: fixedNow},
				{ID: "2", Priority: domain.PriorityLow, Category: "2", CreatedAt: fixedNow, UpdatedAt: fixedNow},
				{ID: "3", Priority: domain.PriorityHigh, Category: "2", Completed: true, CreatedAt: fixedNow, UpdatedAt: fixedNow},
			},
			expectedStats: func(t *testing.T, stats *Statistics) {
				assert.Equal(t, 3, stats.Total)
				assert.Equal(t, 1, stats.Completed)
				assert.Equal(t, 2, stats.Pending)
				assert.Equal(t, 33, stats.CompletionRate)
				assert.Equal(t, PriorityBreakdown{High: 1, Medium: 0, Low: 1}, stats.Priorities)

				require.Len(t, stats.Categories, 3)
				assert.Equal(t, CategoryStats{CategoryID: "1", Name: "General", Color: domain.ColorBlue, Total: 1, Pending: 1}, stats.Categories[0])
				assert.Equal(t, CategoryStats{CategoryID: "2", Name: "Work", Color: domain.ColorGreen, Total: 2, Completed: 1, Pending: 1}, stats.Categories[1])
				assert.Equal(t, 0, stats.Categories[2].Total)
			},
		},
		{
			name: "should bucket tasks into the trailing four weeks by creation",
			tasks: []*domain.Task{
				{ID: "this-week", CreatedAt: day(time.March, 9, 1), UpdatedAt: fixedNow},
				{ID: "last-week", CreatedAt: day(time.March, 8, 23), UpdatedAt: fixedNow, Completed: true},
				{ID: "three-weeks", CreatedAt: day(time.February, 17, 12), UpdatedAt: fixedNow},
				{ID: "too-old", CreatedAt: day(time.February, 16, 12), UpdatedAt: fixedNow},
			},
			expectedStats: func(t *testing.T, stats *Statistics) {
				require.Len(t, stats.Weekly, 4)
				labels := []string{}
				for _, point := range stats.Weekly {
					labels = append(labels, point.Label)
				}
				assert.Equal(t, []string{"Week 4", "Week 3", "Week 2", "Week 1"}, labels)
				assert.True(t, day(time.February, 17, 0).Equal(stats.Weekly[0].Start))
				assert.Equal(t, 1, stats.Weekly[0].Created)
				assert.Equal(t, 0, stats.Weekly[1].Created)
				assert.Equal(t, 1, stats.Weekly[2].Created)
				assert.Equal(t, 1, stats.Weekly[2].Completed)
				assert.Equal(t, 1, stats.Weekly[3].Created)
			},
		},
		{
			name: "should count completed tasks by the day they were last updated",
			tasks: []*domain.Task{
				{ID: "sat", Completed: true, CreatedAt: day(time.March, 1, 0), UpdatedAt: day(time.March, 9, 10)},
				{ID: "wed", Completed: true, CreatedAt: day(time.March, 1, 0), UpdatedAt: day(time.March, 13, 9)},
				{ID: "wed-open", CreatedAt: day(time.March, 1, 0), UpdatedAt: day(time.March, 13, 9)},
				{ID: "last-fri", Completed: true, CreatedAt: day(time.March, 1, 0), UpdatedAt: day(time.March, 8, 9)},
			},
			expectedStats: func(t *testing.T, stats *Statistics) {
				require.Len(t, stats.Daily, 7)
				assert.Equal(t, "Sat", stats.Daily[0].Label)
				assert.Equal(t, "Fri", stats.Daily[6].Label)
				assert.Equal(t, 1, stats.Daily[0].Completed)
				assert.Equal(t, 1, stats.Daily[4].Completed)
				total := 0
				for _, point := range stats.Daily {
					total += point.Completed
				}
				assert.Equal(t, 2, total)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expectedStats(t, svc.Statistics(tt.tasks, categories))
		})
	}
}

func TestReportingService_Insights(t *testing.T) {
	svc := NewReportingService(newTestTimeService())

	kinds := func(stats *Statistics) []InsightKind {
		result := []InsightKind{}
		for _, insight := range stats.Insights {
			result = append(result, insight.Kind)
		}
		return result
	}

	t.Run("should praise a high completion rate and note when everything is done", func(t *testing.T) {
		tasks := []*domain.Task{{ID: "1", Completed: true}, {ID: "2", Completed: true}}
		assert.Equal(t, []InsightKind{InsightExcellent, InsightAllDone}, kinds(svc.Statistics(tasks, nil)))
	})

	t.Run("should flag more than five open high priority tasks", func(t *testing.T) {
		var tasks []*domain.Task
		for i := 0; i < 6; i++ {
			tasks = append(tasks, &domain.Task{ID: fmt.Sprint(i), Priority: domain.PriorityHigh})
		}
		assert.Equal(t, []InsightKind{InsightHighPriorityBacklog}, kinds(svc.Statistics(tasks, nil)))
	})

	t.Run("should not flag exactly five", func(t *testing.T) {
		var tasks []*domain.Task
		for i := 0; i < 5; i++ {
			tasks = append(tasks, &domain.Task{ID: fmt.Sprint(i), Priority: domain.PriorityHigh})
		}
		assert.Empty(t, kinds(svc.Statistics(tasks, nil)))
	})
}
