package harness

import (
	"github.com/roach88/frbgen/internal/compiler"
	"github.com/roach88/frbgen/internal/ir"
)

// Snapshot captures the observable outcome of a scenario execution.
// Serialized with canonical JSON for deterministic comparison.
type Snapshot struct {
	ScenarioName string                  `json:"scenario_name"`
	IR           *ir.ApiFile             `json:"ir,omitempty"`
	Error        *SnapshotError          `json:"error,omitempty"`
	Cycles       []compiler.CycleWarning `json:"cycles"`
}

// SnapshotError is the stable part of a compile error. The message is left
// out so wording changes do not churn golden files.
type SnapshotError struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
}

// NewSnapshot builds the snapshot for a finished result.
func NewSnapshot(name string, result *Result) Snapshot {
	snap := Snapshot{
		ScenarioName: name,
		IR:           result.File,
		Cycles:       result.Cycles,
	}
	if snap.Cycles == nil {
		snap.Cycles = []compiler.CycleWarning{}
	}
	if result.File == nil {
		snap.Error = &SnapshotError{Kind: result.ErrorKind, Subject: result.ErrorSubject}
	}
	return snap
}

// MarshalCanonical renders the snapshot as RFC 8785 canonical JSON.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s)
}
