package main

import (
	"fmt"
	"strings"

	"go-cdms-inventory/internal/apperror"
)

// describe flattens field-level validation errors into one line.
func describe(err error) error {
	appErr := apperror.From(err)
	if len(appErr.Fields) == 0 {
		if appErr.Err != nil {
			return fmt.Errorf("%s: %w", appErr.Message, appErr.Err)
		}
		return appErr
	}
	parts := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Errorf("%s (%s)", appErr.Message, strings.Join(parts, "; "))
}
