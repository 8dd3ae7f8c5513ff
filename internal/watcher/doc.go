// Package watcher turns filesystem create events into serial pipeline runs.
package watcher
