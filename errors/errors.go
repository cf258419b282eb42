package errors

import "errors"

// Sentinel errors used across packmeta packages. Call sites wrap these with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	// Merge engine.
	ErrMerge             = errors.New("merge failed")
	ErrInvalidMergeInput = errors.New("invalid merge input: defaults and overrides must be mappings")

	// Condition evaluator.
	ErrConditionSyntax = errors.New("invalid condition expression")
	ErrConditionEval   = errors.New("condition evaluation failed")

	// Stores.
	ErrStoreTypeNotFound = errors.New("store type not found")
	ErrStoreUnavailable  = errors.New("store is unavailable")
	ErrInvalidPattern    = errors.New("invalid invalidation pattern")

	// Validation.
	ErrSchemaCompile  = errors.New("failed to compile JSON schema")
	ErrSchemaValidate = errors.New("configuration failed schema validation")

	// Generator.
	ErrGenerateOutput = errors.New("failed to write generated metadata")

	// Configuration.
	ErrConfigLoad = errors.New("failed to load packmeta configuration")
)
