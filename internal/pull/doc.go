// Package pull implements the end-to-end pull operation: fetch the current
// state of a pull request, decide whether its branch tip moved since the
// last recorded revision, and if so persist a snapshot, create the review
// tag, and refresh the by-date index.
//
// Collaborators are injected through the [MetadataClient] and [Git]
// interfaces so the flow is testable against fakes and a temporary storage
// root. Pulls are idempotent when the tip is unchanged and safely
// re-runnable after any mid-flight failure.
package pull
