package apperr_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("per_page must be between 1 and 100")

	if err.Error() != "per_page must be between 1 and 100" {
		t.Errorf("expected 'per_page must be between 1 and 100', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	_, inner := time.Parse("2006-01-02", "2024-13-01")
	err := apperr.NewValidationWrap("invalid from_date", inner)

	if err.Error() != "invalid from_date: "+inner.Error() {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("to_date must not be before from_date")

	wrapped := fmt.Errorf("failed to build filter: %w", original)
	doubleWrapped := fmt.Errorf("handler error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "to_date must not be before from_date" {
		t.Errorf("expected 'to_date must not be before from_date', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestNewFieldValidation(t *testing.T) {
	err := apperr.NewFieldValidation("author_name", "must not exceed %d characters", 150)

	if err.Field != "author_name" {
		t.Errorf("expected field author_name, got %q", err.Field)
	}
	if err.Error() != "author_name must not exceed 150 characters" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
