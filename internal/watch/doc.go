// Package watch implements synthbuild's live-rebuild loop. It
// periodically fingerprints the source and resources directories,
// diffs the fingerprints, classifies changed paths into build action
// categories, and triggers at most one build action per category per
// cycle. An fsnotify-driven mode replaces the polling trigger while
// preserving the same batching and ordering behaviour.
package watch
