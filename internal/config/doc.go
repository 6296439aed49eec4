// Package config loads rig configuration files.
//
// A rig file is YAML, decoded strictly (unknown keys are errors) and then
// checked against an embedded CUE schema:
//
//	name: tbik1
//	edge_a: 4
//	edge_b: 2
//	target: [6, 0, 0]
//	pole: [6, 1, 0]
//	soften: 0.5          # optional
//	stretch_strength: 1  # optional, 0..1
//
// Names are NFC-normalized before validation so that visually identical
// names compare equal.
package config
