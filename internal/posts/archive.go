package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"reposter/internal/kvstore"
	"reposter/internal/logging"
	"reposter/internal/pipeline"
	"reposter/internal/services"
)

// ReadArchive reads a JSON array of posts from each input path and emits
// them one by one. Posts before a malformed element are still emitted.
func ReadArchive() *pipeline.Func[string, ArchivedPost] {
	return pipeline.New("ReadArchive", func(ctx context.Context, path string, emit pipeline.Sink[ArchivedPost]) error {
		f, err := os.Open(path)
		if err != nil {
			return services.Wrap(services.ErrNotFound, "ReadArchive", "open", path, err)
		}
		defer f.Close()

		dec := json.NewDecoder(f)
		tok, err := dec.Token()
		if err != nil {
			return services.Wrap(services.ErrValidation, "ReadArchive", "decode", path, err)
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return services.Wrap(services.ErrValidation, "ReadArchive", "decode",
				fmt.Sprintf("%s: expected a JSON array", path), nil)
		}

		for index := 0; dec.More(); index++ {
			var post ArchivedPost
			if err := dec.Decode(&post); err != nil {
				return services.Wrap(services.ErrValidation, "ReadArchive", "decode",
					fmt.Sprintf("%s: element %d", path, index), err)
			}
			if strings.TrimSpace(post.ID) == "" {
				return services.Wrap(services.ErrValidation, "ReadArchive", "decode",
					fmt.Sprintf("%s: element %d has no id", path, index), nil)
			}
			if err := emit.One(ctx, post); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return services.Wrap(services.ErrValidation, "ReadArchive", "decode", path, err)
		}
		return nil
	})
}

// Archiver stores posts and remembers their keys so SaveKeyList can write
// the partition's post list once the run is over.
type Archiver struct {
	*pipeline.Func[ArchivedPost, ArchivedPost]
	store     kvstore.Store
	partition string
	keys      []kvstore.Key
}

// StoreArchived returns a stage that writes each post under its PostKey and
// forwards it.
func StoreArchived(store kvstore.Store, partition string) *Archiver {
	a := &Archiver{store: store, partition: partition}
	a.Func = pipeline.New("LoadArchivedPostsToDb", func(ctx context.Context, post ArchivedPost, emit pipeline.Sink[ArchivedPost]) error {
		key := PostKey(a.partition, post.ID)
		if err := a.store.Set(ctx, key, post); err != nil {
			return err
		}
		a.keys = append(a.keys, key)
		return emit.One(ctx, post)
	})
	return a
}

// Stored returns the number of posts written so far.
func (a *Archiver) Stored() int { return len(a.keys) }

// SaveKeyList merges the keys stored by this stage into the partition's post
// list, keeping existing entries first and skipping keys already listed.
func (a *Archiver) SaveKeyList(ctx context.Context) error {
	var existing []kvstore.Key
	if _, err := a.store.Get(ctx, PostListKey(a.partition), &existing); err != nil {
		return fmt.Errorf("load post list: %w", err)
	}

	seen := make(map[string]struct{}, len(existing)+len(a.keys))
	merged := make([]kvstore.Key, 0, len(existing)+len(a.keys))
	for _, key := range append(existing, a.keys...) {
		encoded := key.String()
		if _, dup := seen[encoded]; dup {
			continue
		}
		seen[encoded] = struct{}{}
		merged = append(merged, key)
	}

	if err := a.store.Set(ctx, PostListKey(a.partition), merged); err != nil {
		return fmt.Errorf("save post list: %w", err)
	}
	return nil
}

// LoadArchivedKeys emits every stored post key for each input partition.
func LoadArchivedKeys(store kvstore.Store, logger *slog.Logger) *pipeline.Func[string, kvstore.Key] {
	logger = logging.NewComponentLogger(logger, "posts")
	return pipeline.New("LoadArchivedPostKeysFromDb", func(ctx context.Context, partition string, emit pipeline.Sink[kvstore.Key]) error {
		var keys []kvstore.Key
		found, err := store.Get(ctx, PostListKey(partition), &keys)
		if err != nil {
			return err
		}
		if !found {
			return services.Wrap(services.ErrNotFound, "LoadArchivedPostKeysFromDb", "load",
				"no posts have been stored yet", nil)
		}
		logger.Info("loaded post keys",
			logging.String(logging.FieldPartition, partition),
			logging.Int("count", len(keys)),
		)
		for _, key := range keys {
			if err := emit.One(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadArchived resolves each key to its stored post.
func LoadArchived(store kvstore.Store) *pipeline.Func[kvstore.Key, ArchivedPost] {
	return pipeline.New("LoadArchivedPostDataFromDb", func(ctx context.Context, key kvstore.Key, emit pipeline.Sink[ArchivedPost]) error {
		var post ArchivedPost
		found, err := store.Get(ctx, key, &post)
		if err != nil {
			return err
		}
		if !found {
			return services.Wrap(services.ErrNotFound, "LoadArchivedPostDataFromDb", "load",
				fmt.Sprintf("couldn't find record for key %s", key), nil)
		}
		return emit.One(ctx, post)
	})
}
