package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"task-manager/internal/domain"
)

func newTask(id string, priority domain.Priority, due *time.Time, completed bool) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     "Task " + id,
		Priority:  priority,
		Category:  domain.DefaultCategoryID,
		DueDate:   due,
		Completed: completed,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func ids(tasks []*domain.Task) []string {
	result := make([]string, len(tasks))
	for i, task := range tasks {
		result[i] = task.ID
	}
	return result
}

func TestSearchService_Search(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "1", Title: "Buy milk", Description: "From the corner shop"},
		{ID: "2", Title: "Write report", Description: "Quarterly MILK figures"},
		{ID: "3", Title: "Call Alice", Description: ""},
	}
	svc := NewSearchService(newTestTimeService())

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "should match title ignoring case", query: "buy", expected: []string{"1"}},
		{name: "should match description ignoring case", query: "milk", expected: []string{"1", "2"}},
		{name: "should match mid-word substrings", query: "lic", expected: []string{"3"}},
		{name: "should return nothing for unknown text", query: "zebra", expected: []string{}},
		{name: "should keep trailing spaces in the match", query: "MILK ", expected: []string{"2"}},
		{name: "should keep leading spaces in the match", query: " report", expected: []string{"2"}},
		{name: "should not match across a missing space", query: "report ", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(svc.Search(tasks, tt.query)))
		})
	}

	t.Run("should treat a blank query as empty", func(t *testing.T) {
		assert.Equal(t, tasks, svc.Search(tasks, "   "))
	})

	t.Run("should return the input unchanged for an empty query", func(t *testing.T) {
		result := svc.Search(tasks, "")
		assert.Equal(t, tasks, result)
		assert.Same(t, tasks[0], result[0])
		assert.Len(t, result, len(tasks))
	})
}

func TestSearchService_Filter(t *testing.T) {
	tasks := []*domain.Task{
		newTask("due-today", domain.PriorityLow, timePtr(day(time.March, 13, 18)), false),
		newTask("due-today-done", domain.PriorityLow, timePtr(day(time.March, 13, 18)), true),
		newTask("due-saturday", domain.PriorityLow, timePtr(day(time.March, 9, 8)), false),
		newTask("due-next-week", domain.PriorityLow, timePtr(day(time.March, 16, 8)), false),
		newTask("undated", domain.PriorityLow, nil, false),
		newTask("undated-done", domain.PriorityLow, nil, true),
	}
	svc := NewSearchService(newTestTimeService())

	tests := []struct {
		name     string
		filter   TaskFilter
		expected []string
	}{
		{
			name:     "should show only incomplete tasks for all",
			filter:   FilterAll,
			expected: []string{"due-today", "due-saturday", "due-next-week", "undated"},
		},
		{
			name:     "should show incomplete tasks due today",
			filter:   FilterToday,
			expected: []string{"due-today"},
		},
		{
			name:     "should show incomplete tasks due in the Saturday week",
			filter:   FilterWeek,
			expected: []string{"due-today", "due-saturday"},
		},
		{
			name:     "should show completed tasks regardless of due date",
			filter:   FilterCompleted,
			expected: []string{"due-today-done", "undated-done"},
		},
		{
			name:     "should treat unknown filters as all",
			filter:   TaskFilter("bogus"),
			expected: []string{"due-today", "due-saturday", "due-next-week", "undated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(svc.Filter(tasks, tt.filter)))
		})
	}

	t.Run("should count every filter", func(t *testing.T) {
		counts := svc.CountByFilter(tasks)
		assert.Equal(t, FilterCounts{All: 4, Today: 1, Week: 2, Completed: 2}, counts)
		assert.Equal(t, 2, counts.Get(FilterWeek))
		assert.Equal(t, 4, counts.Get(TaskFilter("bogus")))
	})
}

func TestSearchService_Sort(t *testing.T) {
	tomorrow := timePtr(day(time.March, 14, 9))
	nextWeek := timePtr(day(time.March, 20, 9))
	svc := NewSearchService(newTestTimeService())

	tests := []struct {
		name     string
		tasks    []*domain.Task
		sortBy   domain.SortBy
		expected []string
	}{
		{
			name: "should order dated, then undated by priority, then completed",
			tasks: []*domain.Task{
				newTask("C", domain.PriorityLow, nil, true),
				newTask("B", domain.PriorityHigh, nil, false),
				newTask("A", domain.PriorityLow, tomorrow, false),
			},
			sortBy:   domain.SortByDate,
			expected: []string{"A", "B", "C"},
		},
		{
			name: "should order due dates ascending",
			tasks: []*domain.Task{
				newTask("later", domain.PriorityHigh, nextWeek, false),
				newTask("sooner", domain.PriorityLow, tomorrow, false),
			},
			sortBy:   domain.SortByDate,
			expected: []string{"sooner", "later"},
		},
		{
			name: "should keep storage order between equal tasks",
			tasks: []*domain.Task{
				newTask("first", domain.PriorityMedium, nil, false),
				newTask("second", domain.PriorityMedium, nil, false),
				newTask("third", domain.PriorityMedium, nil, false),
			},
			sortBy:   domain.SortByDate,
			expected: []string{"first", "second", "third"},
		},
		{
			name: "should default to date order for unknown values",
			tasks: []*domain.Task{
				newTask("B", domain.PriorityHigh, nil, false),
				newTask("A", domain.PriorityLow, tomorrow, false),
			},
			sortBy:   domain.SortBy(""),
			expected: []string{"A", "B"},
		},
		{
			name: "should order by priority before due date",
			tasks: []*domain.Task{
				newTask("low-dated", domain.PriorityLow, tomorrow, false),
				newTask("high-undated", domain.PriorityHigh, nil, false),
				newTask("high-dated", domain.PriorityHigh, nextWeek, false),
				newTask("done", domain.PriorityHigh, tomorrow, true),
			},
			sortBy:   domain.SortByPriority,
			expected: []string{"high-dated", "high-undated", "low-dated", "done"},
		},
		{
			name: "should keep storage order with completed last for manual",
			tasks: []*domain.Task{
				newTask("done", domain.PriorityHigh, nil, true),
				newTask("low", domain.PriorityLow, nil, false),
				newTask("high", domain.PriorityHigh, tomorrow, false),
			},
			sortBy:   domain.SortByManual,
			expected: []string{"low", "high", "done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := ids(tt.tasks)

			sorted := svc.Sort(tt.tasks, tt.sortBy)

			assert.Equal(t, tt.expected, ids(sorted))
			assert.Equal(t, original, ids(tt.tasks), "input must not be reordered")
		})
	}
}

func TestSearchService_List(t *testing.T) {
	tasks := []*domain.Task{
		newTask("1", domain.PriorityLow, nil, false),
		newTask("2", domain.PriorityHigh, nil, false),
		newTask("3", domain.PriorityHigh, nil, true),
	}
	tasks[0].Title = "Plan trip"
	tasks[1].Title = "Plan budget"
	tasks[2].Title = "Plan party"
	svc := NewSearchService(newTestTimeService())

	result := svc.List(tasks, ListOptions{Query: "plan", Filter: FilterAll, SortBy: domain.SortByDate})

	assert.Equal(t, []string{"2", "1"}, ids(result))
}
