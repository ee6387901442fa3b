package extract

import (
	"github.com/tidwall/gjson"
	"github.com/user/feed-harvester/internal/entity"
)

// ParseCommentList decodes a comment-detail response. A body that is not
// valid JSON yields no comments.
func (s Schema) ParseCommentList(payload []byte) []*entity.Comment {
	if !gjson.ValidBytes(payload) {
		return nil
	}
	doc := gjson.ParseBytes(payload)
	postID := fieldOf(doc.Get(s.CommentPostIDPath))
	edges := doc.Get(s.CommentEdgesPath)
	if !edges.IsArray() {
		return nil
	}

	var comments []*entity.Comment
	edges.ForEach(func(_, edge gjson.Result) bool {
		node := edge.Get(s.CommentNodePath)
		id := fieldOf(node.Get("id"))
		text := fieldOf(node.Get("body.text"))
		author := fieldOf(node.Get("author.name"))
		first, last := SplitName(author)
		stamp := s.timestampLink(node.Get(s.ActionLinksPath))

		comments = append(comments, &entity.Comment{
			ID:                id,
			CommentID:         id,
			PostID:            postID,
			CommentText:       text,
			CommentAuthorName: author,
			CommentAuthorID:   fieldOf(node.Get("author.id")),
			CommentAuthorURL:  fieldOf(node.Get("author.url")),
			Timestamp:         fieldOf(stamp.Get("created_time")),
			CommentURL:        fieldOf(stamp.Get("url")),
			Email:             entity.Text(EmailFromText(text.String())),
			FirstName:         first,
			LastName:          last,
		})
		return true
	})
	return comments
}

// timestampLink finds the action link of the timestamp type; its position in
// the list is not stable.
func (s Schema) timestampLink(links gjson.Result) gjson.Result {
	var found gjson.Result
	links.ForEach(func(_, link gjson.Result) bool {
		if link.Get("__typename").String() == s.TimestampLinkType {
			found = link.Get(s.TimestampLinkField)
			return false
		}
		return true
	})
	return found
}
