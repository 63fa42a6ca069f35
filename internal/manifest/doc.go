// Package manifest loads batch files listing several repository references
// to fetch in one run.
//
// # Manifest Format
//
// Manifests can be written in YAML, JSON or TOML:
//
//	sources:
//	  - ref: github:org/repo#v1.2.0
//	    dest: vendor/repo
//	  - ref: gitlab:group/project
//	    options:
//	      depth: 1
//	  - ref: direct:https://example.com/archive.zip
//	    dest: archive
//	options:
//	  continue_on_error: true
//	  output: ./third_party
//	  concurrency: 4
//
// A source without dest is placed in a directory named after the
// repository. Relative destinations are resolved under options.output and
// must be unique across the manifest.
//
// # Usage
//
//	loader := manifest.NewLoader()
//	cfg, err := loader.Load("sources.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoSources: manifest has no sources defined
//   - ErrEmptyRef: source is missing the required ref field
//   - ErrDuplicateDest: two sources share a destination
//   - ErrInvalidFormat: file is not valid YAML, JSON or TOML
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package manifest
