// Package config loads swiftstyle configuration files.
//
// A configuration maps rule ids to overrides and may carry a reserved
// "settings" table for run-wide options:
//
//	line_length:
//	  severity: error
//	  params:
//	    max: 100
//	force_unwrap: false     # shorthand for enabled: false
//	settings:
//	  fail_on: warning
//	  exclude: ["**/Pods/**"]
//	  jobs: 4
//
// YAML, TOML and JSON are accepted, chosen by file extension. Every problem
// is reported as an *Error carrying a CFG diagnostic code; a configuration
// that fails validation is never partially applied.
package config
