// Package harness runs rig scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: right_triangle
//	description: "What this scenario validates"
//	rig:                     # inline rig, or rig_file: relative/path.yaml
//	  name: arm
//	  edge_a: 3
//	  edge_b: 4
//	  target: [5, 0, 0]
//	  pole: [0, 5, 0]
//	steps:
//	  - target: [5, 0, 0]    # optional locator moves
//	    pole: [0, 5, 0]
//	    expect:
//	      bend_angle: 1.5707963
//	      end: [5, 0, 0]
//	      tolerance: 1e-6
//	  - target: [0, 0, 0]
//	    expect:
//	      error: DEGENERATE_TARGET
//	assertions:
//	  - type: solve_count
//	    count: 2
//
// Each step applies its moves and evaluates the rig once. A step without
// an expect clause must solve without error.
//
// # Assertion Types
//
//   - solve_count: the node evaluated exactly N times over the scenario
//   - error_count: exactly N evaluations failed
//   - error_order: failing steps reported these codes, in order
//   - final_end: the last pose's end effector is at the given point
//
// # Deterministic Testing
//
// Every run uses sequential node ids and a fresh in-memory evaluation log,
// and trace values are rounded to six decimals, so traces are identical
// across runs and platforms for golden comparison.
package harness
