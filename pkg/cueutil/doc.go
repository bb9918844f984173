// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE decoding flow shared by project manifests,
// component manifests and the configuration file.
//
// Every caller follows the same three steps: compile an embedded schema,
// unify the user document with one of its definitions, then validate and
// decode into a Go struct. JSON documents go through the same path since JSON
// is a subset of CUE.
//
//	//go:embed schema.cue
//	var schema []byte
//
//	res, err := cueutil.Decode[projectFile](schema, "#Project", data,
//	    cueutil.WithFilename("project.json"))
package cueutil
