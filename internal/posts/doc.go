// Package posts holds the archived-post domain: the post types, their
// storage keys, and the stages that import, load, deduplicate and republish
// them.
//
// A Post is a tagged variant: Pending wraps an ArchivedPost that has not been
// republished, Republished wraps the RepublishedPost recorded after a
// successful republish. Stages switch on Kind rather than probing fields.
//
// Storage keys, all namespaced by partition:
//
//	(partition, "archivedPost", id)      one ArchivedPost
//	(partition, "archivedPostKeys")      the ordered list of archivedPost keys
//	(partition, "republishState", id)    one RepublishedPost
//	(partition, "duplicate", axis, id)   one dedup.Record
package posts
