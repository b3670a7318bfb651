package repository

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ParseSort converts a comma-separated sort expression ("name,-price")
// into an ordered sort document. A leading '-' sorts descending. Empty
// or all-blank expressions fall back to the given default.
func ParseSort(expr string, fallback bson.D) bson.D {
	var sort bson.D
	for _, field := range strings.Split(expr, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		direction := 1
		if strings.HasPrefix(field, "-") {
			direction = -1
			field = field[1:]
		}
		if field == "" {
			continue
		}
		sort = append(sort, bson.E{Key: field, Value: direction})
	}
	if len(sort) == 0 {
		return fallback
	}
	return sort
}

// sortTouchesField reports whether any sort key targets the given field.
func sortTouchesField(sort bson.D, field string) bool {
	for _, e := range sort {
		if e.Key == field {
			return true
		}
	}
	return false
}
