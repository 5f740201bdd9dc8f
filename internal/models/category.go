package models

import (
	"fmt"
	"strings"
)

// Category is one documentation-lifecycle module of the documentation set.
type Category string

const (
	CategoryDeployment      Category = "deployment"
	CategoryTesting         Category = "testing"
	CategoryProduct         Category = "product"
	CategoryTech            Category = "tech"
	CategoryArchitecture    Category = "architecture"
	CategoryDevelopment     Category = "development"
	CategoryTypes           Category = "types"
	CategoryDesign          Category = "design"
	CategoryDocClosure      Category = "doc-closure"
	CategoryDetailedDesign  Category = "detailed-design"
	CategoryProjectPlanning Category = "project-planning"
	CategoryRequirements    Category = "requirements"
	CategoryOperations      Category = "operations"
	CategorySupport         Category = "support"
	CategoryAPI             Category = "api"
)

var categoryTitles = map[Category]string{
	CategoryDeployment:      "Deployment",
	CategoryTesting:         "Testing",
	CategoryProduct:         "Product",
	CategoryTech:            "Tech",
	CategoryArchitecture:    "Architecture",
	CategoryDevelopment:     "Development",
	CategoryTypes:           "Types",
	CategoryDesign:          "Design",
	CategoryDocClosure:      "Doc Closure",
	CategoryDetailedDesign:  "Detailed Design",
	CategoryProjectPlanning: "Project Planning",
	CategoryRequirements:    "Requirements",
	CategoryOperations:      "Operations",
	CategorySupport:         "Support",
	CategoryAPI:             "API",
}

// Categories returns every known category in canonical scan order.
func Categories() []Category {
	return []Category{
		CategoryDeployment,
		CategoryTesting,
		CategoryProduct,
		CategoryTech,
		CategoryArchitecture,
		CategoryDevelopment,
		CategoryTypes,
		CategoryDesign,
		CategoryDocClosure,
		CategoryDetailedDesign,
		CategoryProjectPlanning,
		CategoryRequirements,
		CategoryOperations,
		CategorySupport,
		CategoryAPI,
	}
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	_, ok := categoryTitles[c]
	return ok
}

// Title returns the display name of c, e.g. "Doc Closure" for "doc-closure".
// Unknown categories get their first letter upper-cased.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ParseCategory converts a raw name into a Category.
func ParseCategory(name string) (Category, error) {
	c := Category(strings.TrimSpace(name))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// ModuleDir returns the directory name of the module holding category c,
// e.g. "PRJ-api" for project code "PRJ".
func ModuleDir(projectCode string, c Category) string {
	return projectCode + "-" + string(c)
}

// CategoryFromModule strips the project-code prefix from a module directory
// name and parses the remainder.
func CategoryFromModule(projectCode, module string) (Category, error) {
	prefix := projectCode + "-"
	if !strings.HasPrefix(module, prefix) {
		return "", fmt.Errorf("module %q lacks project code prefix %q", module, prefix)
	}
	return ParseCategory(strings.TrimPrefix(module, prefix))
}
