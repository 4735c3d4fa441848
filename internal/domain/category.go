package domain

import "time"

// DefaultCategoryID is the category tasks fall back to. It always exists.
const DefaultCategoryID = "1"

// Color is a palette label for a category.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorIndigo Color = "indigo"
	ColorOrange Color = "orange"
)

// Colors returns the palette in picker order.
func Colors() []Color {
	return []Color{ColorBlue, ColorGreen, ColorPurple, ColorRed, ColorYellow, ColorPink, ColorIndigo, ColorOrange}
}

// Known reports whether c is part of the palette.
func (c Color) Known() bool {
	for _, known := range Colors() {
		if c == known {
			return true
		}
	}
	return false
}

// OrDefault returns c, or blue when c is not in the palette.
func (c Color) OrDefault() Color {
	if c.Known() {
		return c
	}
	return ColorBlue
}

// Icon is the name of a category icon.
type Icon string

const (
	IconList      Icon = "List"
	IconBriefcase Icon = "Briefcase"
	IconUser      Icon = "User"
	IconHeart     Icon = "Heart"
	IconHome      Icon = "Home"
	IconBookOpen  Icon = "BookOpen"
	IconGamepad   Icon = "Gamepad2"
)

// Icons returns the icon set in picker order.
func Icons() []Icon {
	return []Icon{IconList, IconBriefcase, IconUser, IconHeart, IconHome, IconBookOpen, IconGamepad}
}

// Known reports whether i is part of the icon set.
func (i Icon) Known() bool {
	for _, known := range Icons() {
		if i == known {
			return true
		}
	}
	return false
}

// OrDefault returns i, or List when i is not in the icon set.
func (i Icon) OrDefault() Icon {
	if i.Known() {
		return i
	}
	return IconList
}

// Category groups tasks.
type Category struct {
	ID        string
	Name      string
	Color     Color
	Icon      Icon
	CreatedAt time.Time
}

// IsDefault reports whether c is the undeletable default category.
func (c Category) IsDefault() bool {
	return c.ID == DefaultCategoryID
}

// String returns the category name.
func (c Category) String() string {
	return c.Name
}

// CategoryDraft holds the editable fields of a category.
type CategoryDraft struct {
	Name  string `validate:"required"`
	Color Color  `validate:"required,palette"`
	Icon  Icon   `validate:"required,categoryicon"`
}

// NewCategoryDraft returns a draft with the picker defaults.
func NewCategoryDraft(name string) CategoryDraft {
	return CategoryDraft{Name: name, Color: ColorBlue, Icon: IconList}
}

// DefaultCategories returns the categories seeded into an uninitialized store.
func DefaultCategories(now time.Time) []*Category {
	return []*Category{
		{ID: DefaultCategoryID, Name: "General", Color: ColorBlue, Icon: IconList, CreatedAt: now},
		{ID: "2", Name: "Work", Color: ColorGreen, Icon: IconBriefcase, CreatedAt: now},
		{ID: "3", Name: "Personal", Color: ColorPurple, Icon: IconUser, CreatedAt: now},
	}
}

// ResolveCategoryID maps a task's category reference onto a known category,
// falling back to the default when the reference dangles.
func ResolveCategoryID(id string, known map[string]bool) string {
	if known[id] {
		return id
	}
	return DefaultCategoryID
}

// CategoryIndex returns the set of category ids in categories.
func CategoryIndex(categories []*Category) map[string]bool {
	index := make(map[string]bool, len(categories))
	for _, c := range categories {
		index[c.ID] = true
	}
	return index
}
