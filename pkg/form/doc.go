// Package form owns the live-edited résumé record between a draft being
// opened and it being submitted for preview. The Controller applies
// mutations, keeps the "one row per collection" invariant, restarts a
// trailing-edge debounce timer on every change and writes the record back to
// the draft store once edits go quiet. It also derives the coarse one-page
// overflow signal and mediates submission, photo uploads and example fills
// through caller-supplied confirmation continuations.
package form
