package posts

import (
	"fmt"
	"time"

	"reposter/internal/publisher"
)

// Attachment is a media file found next to an archived post.
type Attachment struct {
	FilePath  string `json:"filePath"`
	AltText   string `json:"altText"`
	MediaType string `json:"mediaType"`
}

// ArchivedPost is one post read from an export archive.
type ArchivedPost struct {
	ID                 string       `json:"id"`
	OriginalURL        string       `json:"originalUrl"`
	OriginalDate       time.Time    `json:"originalDate"`
	Text               string       `json:"text"`
	Sensitive          bool         `json:"sensitive"`
	WarningText        string       `json:"warningText,omitempty"`
	InReplyTo          string       `json:"inReplyTo,omitempty"`
	Visibility         string       `json:"visibility"`
	Attachments        []Attachment `json:"foundAttachments,omitempty"`
	MissingAttachments []string     `json:"missingAttachments,omitempty"`
}

// Visibility values carried by archived posts.
const (
	VisibilityPublic   = "public"
	VisibilityUnlisted = "unlisted"
	VisibilityOther    = "other"
)

// RepublishedPost pairs an archived post with the status it became.
type RepublishedPost struct {
	Post   ArchivedPost     `json:"post"`
	Status publisher.Status `json:"status"`
}

// Kind discriminates the Post variant.
type Kind int

const (
	Pending Kind = iota
	Republished
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Republished:
		return "republished"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Post is either a pending archived post or a republished one. Only the
// field matching Kind is meaningful.
type Post struct {
	Kind        Kind
	Archived    ArchivedPost
	Republished RepublishedPost
}

func NewPending(post ArchivedPost) Post {
	return Post{Kind: Pending, Archived: post}
}

func NewRepublished(post RepublishedPost) Post {
	return Post{Kind: Republished, Republished: post}
}

// Source returns the archived post behind either variant.
func (p Post) Source() ArchivedPost {
	switch p.Kind {
	case Pending:
		return p.Archived
	case Republished:
		return p.Republished.Post
	default:
		panic(fmt.Sprintf("posts: unknown post kind %v", p.Kind))
	}
}

// ID returns the archived post id for either variant.
func (p Post) ID() string {
	return p.Source().ID
}

// Draft is a post ready to send to the publisher.
type Draft struct {
	Text    string                `json:"text"`
	Options publisher.PostOptions `json:"options"`
	Source  ArchivedPost          `json:"source"`
}
