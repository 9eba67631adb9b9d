package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/distclust/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeErrorCodes(),
		patterns: initializeErrorPatterns(),
	}
}

func initializeErrorCodes() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidInput:       domain.ErrorCategoryInput,
		domain.ErrCodeFileNotFound:       domain.ErrorCategoryInput,
		domain.ErrCodeMalformedRecord:    domain.ErrorCategoryInput,
		domain.ErrCodeConfigError:        domain.ErrorCategoryConfig,
		domain.ErrCodeUnsupportedFormat:  domain.ErrorCategoryOutput,
		domain.ErrCodeOutputError:        domain.ErrorCategoryOutput,
		domain.ErrCodeAnalysisError:      domain.ErrorCategoryProcessing,
		domain.ErrCodeInvariantViolation: domain.ErrorCategoryProcessing,
	}
}

// initializeErrorPatterns maps message fragments of errors without a domain
// code. Categories are checked in order.
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"deadline",
			"context canceled",
			"operation timed out",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"toml",
			"yaml",
			"environment variable",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no such file",
			"file not found",
			"directory",
			"cannot access",
			"permission denied",
			"malformed record",
			"flag",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"format",
			"cannot create",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"cluster",
			"linkage",
			"distance",
		}},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := ec.categoryOf(err)
	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = ec.getCategoryMessage(category)
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categoryOf(err error) domain.ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrorCategoryTimeout
	}
	if category, ok := ec.codes[domain.ErrorCode(err)]; ok {
		return category
	}

	errMsg := strings.ToLower(err.Error())
	for _, cp := range ec.patterns {
		if containsAnyPattern(errMsg, cp.patterns) {
			return cp.category
		}
	}
	return domain.ErrorCategoryUnknown
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the input files exist and are readable",
			"Each line must be: label1 label2 distance (blank and # lines are skipped)",
			"Quote glob patterns such as 'dist/**/*.txt' so the shell does not expand them",
			"Use - to read distances from stdin",
		},
		domain.ErrorCategoryConfig: {
			"Verify configuration file format and values",
			"Try: distclust init to generate a valid config file",
			"Check DISTCLUST_* environment variables for typos",
		},
		domain.ErrorCategoryTimeout: {
			"The run was cancelled before all records were read",
			"Split the input or raise the caller's timeout",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the --output path",
			"Use one of: text, json, yaml, csv",
		},
		domain.ErrorCategoryProcessing: {
			"Run with --verbose for detailed clustering logs",
			"Report the issue with the input that triggers it",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read the distance input",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Clustering was cancelled",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error during clustering",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
