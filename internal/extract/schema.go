// Package extract turns captured query responses into result-set records.
//
// The response shapes are undocumented and change without notice, so every
// marker and path lives in a Schema value instead of in the decoders. A path
// that no longer resolves yields absent fields, never an error.
package extract

// Schema describes where the interesting nodes live in the query responses.
// Paths use gjson syntax.
type Schema struct {
	Version string

	// Request-body markers used to classify a captured call.
	FeedQueryMarker    string
	CommentQueryMarker string

	// Candidate story roots of a feed page line, tried in order.
	FeedStoryRoots []string
	// Paths relative to a story root.
	ActorPath       string
	MessagePath     string
	PostIDPath      string
	TopCommentsPath string

	// Paths of a comment-detail response.
	CommentPostIDPath string
	CommentEdgesPath  string
	// Relative to one edge.
	CommentNodePath    string
	ActionLinksPath    string
	TimestampLinkType  string
	TimestampLinkField string
}

// DefaultSchema matches the group feed payloads served in 2023.
var DefaultSchema = Schema{
	Version: "comet-2023",

	FeedQueryMarker:    "GroupsCometFeedRegularStoriesPaginationQuery",
	CommentQueryMarker: "CometFocusedStoryViewUFIQuery",

	FeedStoryRoots: []string{
		"data.node.group_feed.edges.0.node",
		"data.node",
	},
	ActorPath:       "comet_sections.content.story.comet_sections.context_layout.story.comet_sections.actor_photo.story.actors.0",
	MessagePath:     "comet_sections.content.story.comet_sections.message_container.story.message.text",
	PostIDPath:      "comet_sections.feedback.story.post_id",
	TopCommentsPath: "comet_sections.feedback.story.feedback_context.interesting_top_level_comments",

	CommentPostIDPath:  "data.story_card.post_id",
	CommentEdgesPath:   "data.feedback.ufi_renderer.feedback.comment_list_renderer.feedback.comment_rendering_instance_for_feed_location.comments.edges",
	CommentNodePath:    "node",
	ActionLinksPath:    "comment_action_links",
	TimestampLinkType:  "XFBCommentTimeStampActionLink",
	TimestampLinkField: "comment",
}
