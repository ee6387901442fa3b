package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/feed-harvester/internal/entity"
)

// story builds the story node shape used by both feed line variants.
func story(postID, author, text string, topComments []map[string]any) map[string]any {
	return map[string]any{
		"comet_sections": map[string]any{
			"content": map[string]any{
				"story": map[string]any{
					"comet_sections": map[string]any{
						"context_layout": map[string]any{
							"story": map[string]any{
								"comet_sections": map[string]any{
									"actor_photo": map[string]any{
										"story": map[string]any{
											"actors": []any{
												map[string]any{
													"name": author,
													"id":   "actor-" + postID,
													"url":  "https://example.com/" + postID,
												},
											},
										},
									},
								},
							},
						},
						"message_container": map[string]any{
							"story": map[string]any{
								"message": map[string]any{"text": text},
							},
						},
					},
				},
			},
			"feedback": map[string]any{
				"story": map[string]any{
					"post_id": postID,
					"feedback_context": map[string]any{
						"interesting_top_level_comments": topComments,
					},
				},
			},
		},
	}
}

func topComment(id, author, text string) map[string]any {
	return map[string]any{
		"comment": map[string]any{
			"id":     id,
			"body":   map[string]any{"text": text},
			"author": map[string]any{"name": author, "id": "a-" + id},
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func firstLine(t *testing.T, s map[string]any) string {
	return mustJSON(t, map[string]any{
		"data": map[string]any{
			"node": map[string]any{
				"group_feed": map[string]any{
					"edges": []any{map[string]any{"node": s}},
				},
			},
		},
	})
}

func laterLine(t *testing.T, s map[string]any) string {
	return mustJSON(t, map[string]any{"data": map[string]any{"node": s}})
}

func TestEmailFromText(t *testing.T) {
	cases := []struct {
		text     string
		expected string
	}{
		{"reach me at jane.doe+x@mail.example.org today", "jane.doe+x@mail.example.org"},
		{"two: a@b.io and c@d.io", "a@b.io"},
		{"no address here", ""},
		{"", ""},
		{"broken@host", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, EmailFromText(c.text), c.text)
	}
}

func TestSplitName(t *testing.T) {
	first, last := SplitName(entity.Text("Ada Lovelace King"))
	assert.Equal(t, entity.Text("Ada"), first)
	assert.Equal(t, entity.Text("Lovelace"), last)

	first, last = SplitName(entity.Text("Cher"))
	assert.Equal(t, entity.Text("Cher"), first)
	assert.True(t, last.IsAbsent())

	first, last = SplitName(entity.Field{})
	assert.True(t, first.IsAbsent())
	assert.True(t, last.IsAbsent())

	first, last = SplitName(entity.Null())
	assert.True(t, first.IsAbsent())
	assert.True(t, last.IsAbsent())
}

func TestParseFeedPage(t *testing.T) {
	payload := strings.Join([]string{
		firstLine(t, story("p1", "Ada Lovelace", "Mail ada@example.com", []map[string]any{
			topComment("c1", "Bob Stone", "ping bob@example.net"),
			topComment("c2", "Eve", ""),
		})),
		laterLine(t, story("p2", "Grace Hopper", "no mail", nil)),
		laterLine(t, story("p3", "Linus", "third", nil)),
		"",
	}, "\n")

	items := DefaultSchema.ParseFeedPage([]byte(payload))
	require.Len(t, items, 3)

	p1 := items[0].Post
	assert.Equal(t, entity.Text("p1"), p1.ID)
	assert.Equal(t, entity.Text("p1"), p1.PostID)
	assert.Equal(t, entity.Text("Mail ada@example.com"), p1.PostText)
	assert.Equal(t, entity.Text("Ada Lovelace"), p1.PostAuthor)
	assert.Equal(t, entity.Text("actor-p1"), p1.PostAuthorID)
	assert.Equal(t, entity.Text("https://example.com/p1"), p1.PostAuthorURL)
	assert.Equal(t, entity.Text("ada@example.com"), p1.Email)
	assert.Equal(t, entity.Text("Ada"), p1.FirstName)
	assert.Equal(t, entity.Text("Lovelace"), p1.LastName)

	require.Len(t, items[0].Comments, 2)
	c1 := items[0].Comments[0]
	assert.Equal(t, entity.Text("c1"), c1.CommentID)
	assert.Equal(t, entity.Text("p1"), c1.PostID)
	assert.Equal(t, entity.Text("bob@example.net"), c1.Email)
	assert.Equal(t, entity.Text("Bob"), c1.FirstName)
	assert.True(t, c1.Timestamp.IsAbsent())
	assert.True(t, c1.CommentURL.IsAbsent())
	assert.Equal(t, entity.Text(""), items[0].Comments[1].CommentText)

	assert.Equal(t, entity.Text("p2"), items[1].Post.PostID)
	assert.Equal(t, entity.Text(""), items[1].Post.Email)
	assert.Empty(t, items[1].Comments)
	assert.Equal(t, entity.Text("Linus"), items[2].Post.FirstName)
	assert.True(t, items[2].Post.LastName.IsAbsent())
}

func TestParseFeedLineToleratesMissingNodes(t *testing.T) {
	item, ok := DefaultSchema.ParseFeedLine([]byte(`{"data":{"node":{"comet_sections":{}}}}`))
	require.True(t, ok)
	p := item.Post
	assert.True(t, p.PostID.IsAbsent())
	assert.True(t, p.PostAuthor.IsAbsent())
	assert.Equal(t, entity.Text(""), p.PostText)
	assert.Equal(t, entity.Text(""), p.Email)
	assert.True(t, p.FirstName.IsAbsent())
	assert.Empty(t, item.Comments)

	_, ok = DefaultSchema.ParseFeedLine([]byte(`{"data":`))
	assert.False(t, ok)
	_, ok = DefaultSchema.ParseFeedLine([]byte("   "))
	assert.False(t, ok)
}

func TestParseFeedPageDropsResponseWithMalformedLine(t *testing.T) {
	payload := laterLine(t, story("p1", "A B", "x", nil)) + "\n{not json\n" + laterLine(t, story("p2", "C D", "y", nil))
	assert.Empty(t, DefaultSchema.ParseFeedPage([]byte(payload)))

	payload = laterLine(t, story("p1", "A B", "x", nil)) + "\n{not json"
	assert.Empty(t, DefaultSchema.ParseFeedPage([]byte(payload)))
}

func TestParseFeedPageSkipsTrailerLines(t *testing.T) {
	payload := strings.Join([]string{
		firstLine(t, story("p1", "Ada Lovelace", "hello", nil)),
		`{"label":"GroupsCometFeedRegularStories_paginationGroup$defer$GroupsCometFeedRegularStories_paginationGroup_page_info","data":{"page_info":{"end_cursor":"abc","has_next_page":true}}}`,
		`{"extensions":{"is_final":true}}`,
	}, "\n")

	items := DefaultSchema.ParseFeedPage([]byte(payload))
	require.Len(t, items, 1)
	assert.Equal(t, entity.Text("p1"), items[0].Post.PostID)

	_, ok := DefaultSchema.ParseFeedLine([]byte(`{"extensions":{"is_final":true}}`))
	assert.False(t, ok)
}

func TestParseFeedLineKeepsNulls(t *testing.T) {
	s := story("p9", "Null Url", "text", nil)
	line := laterLine(t, s)
	line = strings.Replace(line, `"url":"https://example.com/p9"`, `"url":null`, 1)

	item, ok := DefaultSchema.ParseFeedLine([]byte(line))
	require.True(t, ok)
	assert.True(t, item.Post.PostAuthorURL.IsNull())
}

const commentListJSON = `{
  "data": {
    "story_card": {"post_id": "p1"},
    "feedback": {"ufi_renderer": {"feedback": {"comment_list_renderer": {"feedback": {
      "comment_rendering_instance_for_feed_location": {"comments": {"edges": [
        {"node": {
          "id": "c10",
          "body": {"text": "write to \"me\" at x@y.com"},
          "author": {"name": "Kim Park", "id": "u10", "url": "https://example.com/u10"},
          "comment_action_links": [
            {"__typename": "XFBCommentReplyActionLink", "comment": {"created_time": 1, "url": "wrong"}},
            {"__typename": "XFBCommentTimeStampActionLink", "comment": {"created_time": 1700000000, "url": "https://example.com/c10"}}
          ]
        }},
        {"node": {
          "id": "c11",
          "author": {"name": "Solo"},
          "comment_action_links": []
        }}
      ]}}
    }}}}}
  }
}`

func TestParseCommentList(t *testing.T) {
	comments := DefaultSchema.ParseCommentList([]byte(commentListJSON))
	require.Len(t, comments, 2)

	c := comments[0]
	assert.Equal(t, entity.Text("c10"), c.ID)
	assert.Equal(t, entity.Text("p1"), c.PostID)
	assert.Equal(t, entity.Text(`write to "me" at x@y.com`), c.CommentText)
	assert.Equal(t, entity.Text("x@y.com"), c.Email)
	assert.Equal(t, entity.Text("u10"), c.CommentAuthorID)
	assert.Equal(t, entity.Text("https://example.com/u10"), c.CommentAuthorURL)
	assert.Equal(t, entity.Text("1700000000"), c.Timestamp)
	assert.Equal(t, entity.Text("https://example.com/c10"), c.CommentURL)
	assert.Equal(t, entity.Text("Kim"), c.FirstName)
	assert.Equal(t, entity.Text("Park"), c.LastName)

	solo := comments[1]
	assert.True(t, solo.CommentText.IsAbsent())
	assert.Equal(t, entity.Text(""), solo.Email)
	assert.True(t, solo.Timestamp.IsAbsent())
	assert.True(t, solo.CommentURL.IsAbsent())
}

func TestParseCommentListInvalid(t *testing.T) {
	assert.Empty(t, DefaultSchema.ParseCommentList([]byte("for (;;);{")))
	assert.Empty(t, DefaultSchema.ParseCommentList([]byte(`{"data":{}}`)))
	assert.Empty(t, DefaultSchema.ParseCommentList(nil))
}
