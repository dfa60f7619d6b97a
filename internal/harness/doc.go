// Package harness provides conformance testing for the resolver.
//
// A scenario is one Rust source file plus the IR it must resolve to, or the
// error it must be rejected with. Every resolved file is validated, written
// to an in-memory run store and read back before assertions run, so a
// passing scenario also proves the IR survives persistence unchanged.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	source: |
//	  pub struct Point { pub x: f64, pub y: f64 }
//	  pub fn scale(p: Point) -> Result<Vec<Point>> { todo!() }
//	expect:
//	  funcs: [scale]
//	  structs: [Point]
//	assertions:
//	  - type: func_signature
//	    func: scale
//	    inputs: ["p: Point"]
//	    output: "Vec<Point>"
//	  - type: struct_fields
//	    struct: Point
//	    fields: ["x: f64", "y: f64"]
//
// A rejected source uses expect.error (and optionally expect.error_subject)
// instead of funcs, structs and assertions. source_file may replace source;
// it is resolved relative to the scenario file.
//
// # Assertion Types
//
//   - func_signature: Verifies a function's inputs and output, in order
//   - struct_fields: Verifies a struct's fields and, optionally, its layout
//   - cycle: Verifies a recursive struct group is reported, optionally at a level
//
// Types are written the way ApiType.String renders them: "Vec<u8>",
// "Box<Node>", "ZeroCopyBuffer<Vec<u8>>".
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/point.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
