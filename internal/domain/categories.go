package domain

import (
	"fmt"
	"strings"
)

// CategorySet is the closed vocabulary of categories active for one
// deployment. The zero value contains nothing.
type CategorySet struct {
	name       string
	categories []Category
	index      map[Category]struct{}
}

// NewCategorySet builds a set, dropping blanks and duplicates while keeping
// the given order.
func NewCategorySet(name string, categories ...Category) CategorySet {
	s := CategorySet{
		name:  name,
		index: make(map[Category]struct{}, len(categories)),
	}
	for _, c := range categories {
		c = Category(strings.TrimSpace(string(c)))
		if c == "" {
			continue
		}
		if _, ok := s.index[c]; ok {
			continue
		}
		s.index[c] = struct{}{}
		s.categories = append(s.categories, c)
	}
	return s
}

// Name identifies the vocabulary, e.g. "personal".
func (s CategorySet) Name() string { return s.name }

// Contains reports whether c belongs to the set. Matching is exact.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s.index[c]
	return ok
}

// Names returns the categories in declaration order.
func (s CategorySet) Names() []Category {
	return append([]Category(nil), s.categories...)
}

const (
	PersonalSetName   = "personal"
	ContractorSetName = "contractor"
)

// PersonalCategories is the household vocabulary.
var PersonalCategories = NewCategorySet(PersonalSetName,
	"Food & Drink",
	"Shopping",
	"Transport",
	"Entertainment",
	"Bills",
	"Health",
	"Rent",
	"Education",
	"Investment",
	"Salary",
	"Other",
)

// ContractorCategories is the vocabulary used by site contractors and small
// businesses.
var ContractorCategories = NewCategorySet(ContractorSetName,
	"Labor Payment",
	"Raw Materials",
	"Fuel & Transport",
	"Machinery",
	"Site Expenses",
	"Entertainment",
	"Bills",
	"Health",
	"Office Rent",
	"Education",
	"Investment",
	"Project Payment",
	"Other",
)

// CategorySetByName resolves a configured vocabulary name.
func CategorySetByName(name string) (CategorySet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PersonalSetName, "":
		return PersonalCategories, nil
	case ContractorSetName:
		return ContractorCategories, nil
	}
	return CategorySet{}, fmt.Errorf("unknown category set %q: must be %q or %q", name, PersonalSetName, ContractorSetName)
}
