// SPDX-License-Identifier: MPL-2.0

// Package manifest loads cutekit project manifests.
//
// A manifest is project.json (or project.cue) at the root of a project. It
// names the project, lists its components and targets, and maps extern keys to
// the git repository and tag they are fetched from:
//
//	{
//	    "id": "skift",
//	    "extern": {
//	        "cute-engineering/libheap": {"git": "https://github.com/cute-engineering/libheap.git", "tag": "v1.1.0"}
//	    }
//	}
package manifest
