package extract

import (
	"bytes"

	"github.com/tidwall/gjson"
	"github.com/user/feed-harvester/internal/entity"
)

// FeedItem is what one feed page line yields: the story itself and the
// preview comments embedded in it.
type FeedItem struct {
	Post     *entity.Post
	Comments []*entity.Comment
}

// ParseFeedPage decodes a newline-delimited feed pagination response. Every
// line is an independent document. A response with any non-blank line that is
// not valid JSON yields nothing at all. Lines without a story root, such as
// the page_info and extensions trailers, are skipped.
func (s Schema) ParseFeedPage(payload []byte) []FeedItem {
	lines := bytes.Split(payload, []byte("\n"))
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && !gjson.ValidBytes(line) {
			return nil
		}
	}

	var items []FeedItem
	for _, line := range lines {
		item, ok := s.ParseFeedLine(line)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

// ParseFeedLine decodes a single feed page line. It reports false when the
// line is not a JSON document or has no story root; a story missing nodes
// below its root still yields a post with absent fields.
func (s Schema) ParseFeedLine(line []byte) (FeedItem, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || !gjson.ValidBytes(line) {
		return FeedItem{}, false
	}
	doc := gjson.ParseBytes(line)
	story := firstExisting(doc, s.FeedStoryRoots)
	if !story.Exists() {
		return FeedItem{}, false
	}

	actor := story.Get(s.ActorPath)
	text := fieldOf(story.Get(s.MessagePath))
	postID := fieldOf(story.Get(s.PostIDPath))
	author := fieldOf(actor.Get("name"))
	first, last := SplitName(author)

	post := &entity.Post{
		ID:            postID,
		PostID:        postID,
		PostText:      text.OrEmpty(),
		PostAuthor:    author,
		PostAuthorID:  fieldOf(actor.Get("id")),
		PostAuthorURL: fieldOf(actor.Get("url")),
		Email:         entity.Text(EmailFromText(text.String())),
		FirstName:     first,
		LastName:      last,
	}

	return FeedItem{
		Post:     post,
		Comments: s.previewComments(postID, story.Get(s.TopCommentsPath)),
	}, true
}

func (s Schema) previewComments(postID entity.Field, list gjson.Result) []*entity.Comment {
	if !list.IsArray() {
		return nil
	}
	var comments []*entity.Comment
	list.ForEach(func(_, entry gjson.Result) bool {
		c := entry.Get("comment")
		id := fieldOf(c.Get("id"))
		text := fieldOf(c.Get("body.text"))
		author := fieldOf(c.Get("author.name"))
		first, last := SplitName(author)
		comments = append(comments, &entity.Comment{
			ID:                id,
			CommentID:         id,
			PostID:            postID,
			CommentText:       text.OrEmpty(),
			CommentAuthorName: author,
			CommentAuthorID:   fieldOf(c.Get("author.id")),
			CommentAuthorURL:  fieldOf(c.Get("author.url")),
			Email:             entity.Text(EmailFromText(text.String())),
			FirstName:         first,
			LastName:          last,
		})
		return true
	})
	return comments
}
