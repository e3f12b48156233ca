package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/inkwell/core"
	"github.com/oxhq/inkwell/internal/config"
	"github.com/oxhq/inkwell/validator"
)

func TestErrorSummaries(t *testing.T) {
	errs := []*core.ParseError{
		{Code: core.ErrUnexpectedToken, Message: "bad token", Position: core.Position{Line: 2, Column: 5}},
		{Code: core.ErrUnexpectedEOF, Message: "truncated"},
	}
	summaries := errorSummaries(errs)
	require.Len(t, summaries, 2)
	assert.Equal(t, "UNEXPECTED_TOKEN", summaries[0].Code)
	assert.Equal(t, 2, summaries[0].Line)
	assert.Equal(t, 5, summaries[0].Column)
	assert.Equal(t, "UNEXPECTED_EOF", summaries[1].Code)
	assert.Equal(t, 0, summaries[1].Line)
}

func TestReportInputDoesNotPanicOnSuccessOrFailure(t *testing.T) {
	ok := core.NewInput("json", nil)
	ok.Root = core.Int(1)
	reportInput(ok, false)
	reportInput(ok, true)

	failed := core.NewInput("json", nil)
	failed.Fail(core.ErrUnexpectedEOF, "truncated input")
	reportInput(failed, false)
	reportInput(failed, true)
}

func TestReportValidationDoesNotPanic(t *testing.T) {
	valid := validator.ValidationResult{Valid: true}
	reportValidation(valid, false)
	reportValidation(valid, true)

	invalid := validator.ValidationResult{
		Valid:      false,
		ErrorCount: 1,
		Errors: []validator.ValidationError{
			{Code: core.ErrTypeMismatch, Message: "expected string, got int", Fatal: true},
		},
	}
	reportValidation(invalid, false)
	reportValidation(invalid, true)
}

func TestBuildFullDispatcherWiresACache(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		CacheDir:            dir + "/cache",
		DBPath:              dir + "/cache.db",
		MaxCacheBytes:       1 << 20,
		TreeCacheMaxEntries: 16,
		TreeCacheMaxBytes:   1 << 20,
		FetchTimeoutSeconds: 5,
	}

	dispatcher, closeFn, err := buildFullDispatcher(cfg)
	require.NoError(t, err)
	require.NotNil(t, dispatcher)
	require.NotNil(t, dispatcher.Fetcher)
	require.NotNil(t, dispatcher.Trees)
	require.NotNil(t, dispatcher.Walker)
	closeFn()
}
