package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/ir"
	"github.com/roach88/frbgen/internal/source"
	"github.com/roach88/frbgen/internal/store"
)

// Harness is the test execution engine.
// It resolves scenario sources and checks the IR survives a store round trip.
type Harness struct {
	store  *store.Store
	parser *source.Parser
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Parse and resolve the scenario source
// 3. Validate the IR, record it as a run and read it back
// 4. Evaluate the expect clause and assertions
// 5. Return result with pass/fail and errors
//
// The returned error is reserved for harness failures (store, I/O). A source
// that fails to resolve is a normal outcome recorded in the Result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	// Resolver logs are not part of a scenario result.
	logger := slog.New(slog.DiscardHandler)
	h := &Harness{
		store:  st,
		parser: source.NewParser(source.WithLogger(logger)),
		logger: logger,
	}

	ctx := context.Background()

	result := NewResult()
	if err := h.resolve(ctx, scenario, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// resolve fills result with either the round-tripped IR or the failure.
func (h *Harness) resolve(ctx context.Context, scenario *Scenario, result *Result) error {
	fileName := scenario.SourceFile
	if fileName == "" {
		fileName = scenario.Name + ".rs"
	}
	content := []byte(scenario.Source)

	file, err := compiler.ParseSource(ctx, h.parser, content, fileName, compiler.WithLogger(h.logger))
	if err != nil {
		result.ErrorMessage = err.Error()
		var cerr *compiler.CompileError
		if errors.As(err, &cerr) {
			result.ErrorKind = string(cerr.Kind)
			result.ErrorSubject = cerr.Subject
		}
		return nil
	}

	for _, verr := range compiler.ValidateFile(file) {
		result.AddError(verr.Error())
	}

	run, err := h.store.WriteRun(ctx, store.RunInput{
		SourcePath: fileName,
		SourceHash: ir.SourceHash(content),
		File:       file,
	})
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	stored, err := h.store.ReadRun(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to read run: %w", err)
	}

	reloadedHash, err := ir.FileHash(stored.File)
	if err != nil {
		return fmt.Errorf("failed to hash stored IR: %w", err)
	}
	if reloadedHash != run.IRHash {
		result.AddError(fmt.Sprintf("store round trip changed IR hash: wrote %s, read %s", run.IRHash, reloadedHash))
	}

	result.File = stored.File
	result.IRHash = reloadedHash
	result.Cycles = compiler.AnalyzeStructCycles(stored.File)
	return nil
}
