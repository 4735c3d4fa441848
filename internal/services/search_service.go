package services

import (
	"sort"
	"strings"

	"task-manager/internal/domain"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	timeService TimeService
}

// NewSearchService creates a new SearchService instance
func NewSearchService(timeService TimeService) SearchService {
	return &searchServiceImpl{timeService: timeService}
}

// matchesTextFilter checks if a task matches the lowercased query
func (s *searchServiceImpl) matchesTextFilter(task *domain.Task, query string) bool {
	return strings.Contains(strings.ToLower(task.Title), query) ||
		strings.Contains(strings.ToLower(task.Description), query)
}

// Search returns tasks whose title or description contains query, ignoring
// case. Surrounding spaces in query are part of the match; a blank query
// returns tasks unchanged.
func (s *searchServiceImpl) Search(tasks []*domain.Task, query string) []*domain.Task {
	if strings.TrimSpace(query) == "" {
		return tasks
	}
	query = strings.ToLower(query)

	matched := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if s.matchesTextFilter(task, query) {
			matched = append(matched, task)
		}
	}
	return matched
}

func (s *searchServiceImpl) matchesFilter(task *domain.Task, filter TaskFilter) bool {
	switch filter {
	case FilterToday:
		return !task.Completed && task.DueDate != nil && s.timeService.IsToday(*task.DueDate)
	case FilterWeek:
		return !task.Completed && task.DueDate != nil && s.timeService.IsThisWeek(*task.DueDate)
	case FilterCompleted:
		return task.Completed
	default:
		return !task.Completed
	}
}

// Filter keeps the tasks selected by filter. Unknown filters behave as FilterAll.
func (s *searchServiceImpl) Filter(tasks []*domain.Task, filter TaskFilter) []*domain.Task {
	filtered := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if s.matchesFilter(task, filter) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// CountByFilter counts the tasks each filter would show
func (s *searchServiceImpl) CountByFilter(tasks []*domain.Task) FilterCounts {
	var counts FilterCounts
	for _, task := range tasks {
		if s.matchesFilter(task, FilterAll) {
			counts.All++
		}
		if s.matchesFilter(task, FilterToday) {
			counts.Today++
		}
		if s.matchesFilter(task, FilterWeek) {
			counts.Week++
		}
		if s.matchesFilter(task, FilterCompleted) {
			counts.Completed++
		}
	}
	return counts
}

// Sort returns a sorted copy of tasks. Every order puts incomplete tasks
// before completed ones and keeps storage order between equal tasks.
func (s *searchServiceImpl) Sort(tasks []*domain.Task, sortBy domain.SortBy) []*domain.Task {
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)

	var less func(a, b *domain.Task) bool
	switch sortBy {
	case domain.SortByPriority:
		less = priorityLess
	case domain.SortByManual:
		less = completedLast
	default:
		less = dueDateLess
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// List applies search, then filter, then sort
func (s *searchServiceImpl) List(tasks []*domain.Task, opts ListOptions) []*domain.Task {
	result := s.Search(tasks, opts.Query)
	result = s.Filter(result, opts.Filter)
	return s.Sort(result, opts.SortBy)
}

func completedLast(a, b *domain.Task) bool {
	return !a.Completed && b.Completed
}

// dueDateLess orders dated tasks by due date ahead of undated tasks, which
// are ordered by descending priority.
func dueDateLess(a, b *domain.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	switch {
	case a.DueDate != nil && b.DueDate != nil:
		return a.DueDate.Before(*b.DueDate)
	case a.DueDate != nil:
		return true
	case b.DueDate != nil:
		return false
	}
	return a.Priority.Rank() > b.Priority.Rank()
}

// priorityLess orders by descending priority, then by due date with
// undated tasks last.
func priorityLess(a, b *domain.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() > b.Priority.Rank()
	}
	switch {
	case a.DueDate != nil && b.DueDate != nil:
		return a.DueDate.Before(*b.DueDate)
	case a.DueDate != nil:
		return true
	}
	return false
}
