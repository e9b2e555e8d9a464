// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	value, err := cueutil.Validate(schema, data, "#Config",
//	    cueutil.WithFilename("config.cue"))
//	if err != nil {
//	    return err // Error includes the CUE path of the offending field
//	}
//	var m map[string]any
//	err = value.Decode(&m)
package cueutil
