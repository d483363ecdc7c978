// Package validation provides centralized input validation logic.
// Bucket names are checked once at driver construction and violations are
// reported as configuration errors; object keys are checked on every call
// and violations are reported as invalid input.
package validation
