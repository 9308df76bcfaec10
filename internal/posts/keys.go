package posts

import (
	"reposter/internal/dedup"
	"reposter/internal/kvstore"
)

// PostKey locates one stored ArchivedPost.
func PostKey(partition, id string) kvstore.Key {
	return kvstore.Key{partition, "archivedPost", id}
}

// PostListKey locates the list of stored post keys for a partition.
func PostListKey(partition string) kvstore.Key {
	return kvstore.Key{partition, "archivedPostKeys"}
}

// RepublishStateKey locates the RepublishedPost for id.
func RepublishStateKey(partition, id string) kvstore.Key {
	return kvstore.Key{partition, "republishState", id}
}

// Identity addresses archived posts for the dedup record layer.
var Identity = dedup.Identity[ArchivedPost]{
	ID: func(p ArchivedPost) string { return p.ID },
	StorageKey: func(partition string, p ArchivedPost) kvstore.Key {
		return PostKey(partition, p.ID)
	},
}
