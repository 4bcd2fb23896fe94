package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidCategory is returned when a custom category name is rejected.
var ErrInvalidCategory = errors.New("invalid category")

// maxCustomCategoryLen bounds user-entered category names, in runes.
const maxCustomCategoryLen = 32

// UncategorizedLabel is the display label for bills without a category.
const UncategorizedLabel = "Uncategorized"

// CategoryKind enumerates the built-in bill categories plus the custom variant.
type CategoryKind int

const (
	CategoryNone CategoryKind = iota
	CategoryFood
	CategoryTransport
	CategoryLodging
	CategoryActivity
	CategoryCustom
)

var builtinCategories = map[string]CategoryKind{
	"food":      CategoryFood,
	"transport": CategoryTransport,
	"lodging":   CategoryLodging,
	"activity":  CategoryActivity,
}

var categoryNames = map[CategoryKind]string{
	CategoryFood:      "food",
	CategoryTransport: "transport",
	CategoryLodging:   "lodging",
	CategoryActivity:  "activity",
}

// Category is a bill category: either one of the built-in kinds or a custom
// name entered by the user. The zero value means "no category".
type Category struct {
	Kind   CategoryKind
	custom string
}

// CustomCategory builds a custom category after validating the name.
func CustomCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: custom name is empty", ErrInvalidCategory)
	}
	if utf8.RuneCountInString(name) > maxCustomCategoryLen {
		return Category{}, fmt.Errorf("%w: custom name longer than %d characters", ErrInvalidCategory, maxCustomCategoryLen)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return Category{}, fmt.Errorf("%w: custom name contains control characters", ErrInvalidCategory)
		}
	}
	return Category{Kind: CategoryCustom, custom: name}, nil
}

// ParseCategory converts user input into a Category. Built-in names match
// case-insensitively; anything else becomes a validated custom category.
// Empty input yields the zero Category.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Category{}, nil
	}
	if kind, ok := builtinCategories[strings.ToLower(trimmed)]; ok {
		return Category{Kind: kind}, nil
	}
	return CustomCategory(trimmed)
}

// MustParseCategory is ParseCategory for trusted input such as stored rows.
// Invalid input degrades to no category.
func MustParseCategory(raw string) Category {
	c, err := ParseCategory(raw)
	if err != nil {
		return Category{}
	}
	return c
}

// String returns the stored form: the built-in name, the custom name, or "".
func (c Category) String() string {
	if c.Kind == CategoryCustom {
		return c.custom
	}
	return categoryNames[c.Kind]
}

// Label returns the display label used to group bills.
func (c Category) Label() string {
	if c.Kind == CategoryNone {
		return UncategorizedLabel
	}
	return c.String()
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
