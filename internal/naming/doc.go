// Package naming generates candidate filenames from content samples, either
// locally (keyword heuristics) or via a remote text-generation model.
package naming
