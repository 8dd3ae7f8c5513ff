// Package textutil provides small text helpers shared by the naming and
// organizing services.
package textutil
