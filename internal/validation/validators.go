package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/goaltracker/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("goal_category", validateGoalCategory); err != nil {
		panic(fmt.Sprintf("failed to register goal_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("goal_timeframe", validateGoalTimeframe); err != nil {
		panic(fmt.Sprintf("failed to register goal_timeframe validator: %v", err))
	}
	if err := Validate.RegisterValidation("category_filter", validateCategoryFilter); err != nil {
		panic(fmt.Sprintf("failed to register category_filter validator: %v", err))
	}
}

// validateGoalCategory validates that a string is one of the fixed goal categories
func validateGoalCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

// validateGoalTimeframe validates that a string is one of the fixed timeframe labels
func validateGoalTimeframe(fl validator.FieldLevel) bool {
	return models.Timeframe(fl.Field().String()).Valid()
}

// validateCategoryFilter accepts a category or the "All" sentinel
func validateCategoryFilter(fl validator.FieldLevel) bool {
	return ValidateCategoryFilter(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateCategoryFilter validates a category filter value
func ValidateCategoryFilter(value string) error {
	if value == models.CategoryAll || models.Category(value).Valid() {
		return nil
	}
	return fmt.Errorf("invalid category: %s (must be '%s' or one of %s)", value, models.CategoryAll, joinCategories())
}

func joinCategories() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = "'" + string(c) + "'"
	}
	return strings.Join(names, ", ")
}

// Describe renders a validation error as a short client-facing message naming the first failing field
func Describe(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		if fe.Param() != "" {
			return fmt.Sprintf("field '%s' failed '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag())
	}
	return err.Error()
}
