// Package textgen wraps the hosted text-generation API used by remote
// naming. Two request body shapes are supported, selected by model family.
package textgen
