package posts

import (
	"context"
	"fmt"

	"reposter/internal/kvstore"
	"reposter/internal/pipeline"
	"reposter/internal/publisher"
)

// RecordRepublish stores each republished post under its RepublishStateKey.
func RecordRepublish(store kvstore.Store, partition string) *pipeline.Func[RepublishedPost, RepublishedPost] {
	return pipeline.New("RecordRepublishToDb", func(ctx context.Context, post RepublishedPost, emit pipeline.Sink[RepublishedPost]) error {
		if err := store.Set(ctx, RepublishStateKey(partition, post.Post.ID), post); err != nil {
			return err
		}
		return emit.One(ctx, post)
	})
}

// LoadRepublishState tags each archived post with its republish state.
func LoadRepublishState(store kvstore.Store, partition string) *pipeline.Func[ArchivedPost, Post] {
	return pipeline.New("LoadRepublishedPostsFromDb", func(ctx context.Context, post ArchivedPost, emit pipeline.Sink[Post]) error {
		var republished RepublishedPost
		found, err := store.Get(ctx, RepublishStateKey(partition, post.ID), &republished)
		if err != nil {
			return err
		}
		if found {
			return emit.One(ctx, NewRepublished(republished))
		}
		return emit.One(ctx, NewPending(post))
	})
}

// DeleteRepublishState removes the stored state of each republished post.
func DeleteRepublishState(store kvstore.Store, partition string) *pipeline.Func[RepublishedPost, RepublishedPost] {
	return pipeline.New("DeleteRepublishedPostsFromDb", func(ctx context.Context, post RepublishedPost, emit pipeline.Sink[RepublishedPost]) error {
		if err := store.Delete(ctx, RepublishStateKey(partition, post.Post.ID)); err != nil {
			return err
		}
		return emit.One(ctx, post)
	})
}

// DropRepublished forwards only pending posts.
func DropRepublished() *pipeline.Func[Post, ArchivedPost] {
	return pipeline.New("DropRepublishedPosts", func(ctx context.Context, post Post, emit pipeline.Sink[ArchivedPost]) error {
		switch post.Kind {
		case Pending:
			return emit.One(ctx, post.Archived)
		case Republished:
			return nil
		default:
			return fmt.Errorf("unknown post kind %v", post.Kind)
		}
	})
}

// KeepRepublished forwards only republished posts.
func KeepRepublished() *pipeline.Func[Post, RepublishedPost] {
	return pipeline.New("KeepRepublishedPosts", func(ctx context.Context, post Post, emit pipeline.Sink[RepublishedPost]) error {
		switch post.Kind {
		case Pending:
			return nil
		case Republished:
			return emit.One(ctx, post.Republished)
		default:
			return fmt.Errorf("unknown post kind %v", post.Kind)
		}
	})
}

// DraftPosts turns archived posts into public drafts carrying the content
// warning and sensitivity flag.
func DraftPosts() *pipeline.Func[ArchivedPost, Draft] {
	return pipeline.New("DraftArchivedPosts", func(ctx context.Context, post ArchivedPost, emit pipeline.Sink[Draft]) error {
		return emit.One(ctx, Draft{
			Text: post.Text,
			Options: publisher.PostOptions{
				Sensitive:   post.Sensitive,
				SpoilerText: post.WarningText,
				Visibility:  VisibilityPublic,
			},
			Source: post,
		})
	})
}

// UploadAttachments uploads each attachment of a draft's source post and
// adds the returned media ids to the draft.
func UploadAttachments(client publisher.Client) *pipeline.Func[Draft, Draft] {
	return pipeline.New("UploadAttachments", func(ctx context.Context, draft Draft, emit pipeline.Sink[Draft]) error {
		for _, attachment := range draft.Source.Attachments {
			resp, err := client.UploadMedia(ctx, attachment.FilePath, attachment.AltText)
			if err != nil {
				return fmt.Errorf("upload %s: %w", attachment.FilePath, err)
			}
			media, err := publisher.Unwrap(resp, "Upload")
			if err != nil {
				return err
			}
			draft.Options.MediaIDs = append(draft.Options.MediaIDs, media.ID)
		}
		return emit.One(ctx, draft)
	})
}

// Republish posts each draft and emits the resulting RepublishedPost.
func Republish(client publisher.Client) *pipeline.Func[Draft, RepublishedPost] {
	return pipeline.New("RepublishPosts", func(ctx context.Context, draft Draft, emit pipeline.Sink[RepublishedPost]) error {
		resp, err := client.PostStatus(ctx, draft.Text, draft.Options)
		if err != nil {
			return fmt.Errorf("post %s: %w", draft.Source.ID, err)
		}
		status, err := publisher.Unwrap(resp, "Post")
		if err != nil {
			return err
		}
		return emit.One(ctx, RepublishedPost{Post: draft.Source, Status: status})
	})
}

// Unpublish deletes the remote status of each republished post.
func Unpublish(client publisher.Client) *pipeline.Func[RepublishedPost, RepublishedPost] {
	return pipeline.New("DeleteRepublishedStatus", func(ctx context.Context, post RepublishedPost, emit pipeline.Sink[RepublishedPost]) error {
		resp, err := client.DeleteStatus(ctx, post.Status.ID)
		if err != nil {
			return fmt.Errorf("delete status %s: %w", post.Status.ID, err)
		}
		if _, err := publisher.Unwrap(resp, "Delete"); err != nil {
			return err
		}
		return emit.One(ctx, post)
	})
}
