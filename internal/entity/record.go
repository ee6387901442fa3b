package entity

// Column names of an exported result set, in output order.
const (
	ColID                = "id"
	ColEmail             = "email"
	ColFirstName         = "firstName"
	ColLastName          = "lastName"
	ColPostID            = "postId"
	ColPostText          = "postText"
	ColPostAuthor        = "postAuthor"
	ColPostAuthorID      = "postAuthorId"
	ColPostAuthorURL     = "postAuthorUrl"
	ColCommentID         = "commentId"
	ColCommentText       = "commentText"
	ColCommentAuthorName = "commentAuthorName"
	ColCommentAuthorID   = "commentAuthorId"
	ColCommentAuthorURL  = "commentAuthorUrl"
	ColTimestamp         = "timestamp"
	ColCommentURL        = "commentUrl"
)

// Columns is the fixed column list of the CSV export.
var Columns = []string{
	ColID,
	ColEmail,
	ColFirstName,
	ColLastName,
	ColPostID,
	ColPostText,
	ColPostAuthor,
	ColPostAuthorID,
	ColPostAuthorURL,
	ColCommentID,
	ColCommentText,
	ColCommentAuthorName,
	ColCommentAuthorID,
	ColCommentAuthorURL,
	ColTimestamp,
	ColCommentURL,
}

type RecordKind string

const (
	KindPost    RecordKind = "post"
	KindComment RecordKind = "comment"
)

// Record is one row of a result set: either a *Post or a *Comment.
type Record interface {
	Kind() RecordKind
	// Column returns the value of a named column; columns the record does not
	// carry are absent.
	Column(name string) Field
}

// Post is a feed story as seen in a feed page response.
type Post struct {
	ID            Field
	PostID        Field
	PostText      Field
	PostAuthor    Field
	PostAuthorID  Field
	PostAuthorURL Field
	Email         Field
	FirstName     Field
	LastName      Field
}

func (p *Post) Kind() RecordKind { return KindPost }

func (p *Post) Column(name string) Field {
	switch name {
	case ColID:
		return p.ID
	case ColPostID:
		return p.PostID
	case ColPostText:
		return p.PostText
	case ColPostAuthor:
		return p.PostAuthor
	case ColPostAuthorID:
		return p.PostAuthorID
	case ColPostAuthorURL:
		return p.PostAuthorURL
	case ColEmail:
		return p.Email
	case ColFirstName:
		return p.FirstName
	case ColLastName:
		return p.LastName
	}
	return Field{}
}

// Comment is either a preview comment embedded in a feed story or a full
// comment from a comment-detail response. Only the latter carries Timestamp
// and CommentURL.
type Comment struct {
	ID                Field
	CommentID         Field
	PostID            Field
	CommentText       Field
	CommentAuthorName Field
	CommentAuthorID   Field
	CommentAuthorURL  Field
	Timestamp         Field
	CommentURL        Field
	Email             Field
	FirstName         Field
	LastName          Field
}

func (c *Comment) Kind() RecordKind { return KindComment }

func (c *Comment) Column(name string) Field {
	switch name {
	case ColID:
		return c.ID
	case ColCommentID:
		return c.CommentID
	case ColPostID:
		return c.PostID
	case ColCommentText:
		return c.CommentText
	case ColCommentAuthorName:
		return c.CommentAuthorName
	case ColCommentAuthorID:
		return c.CommentAuthorID
	case ColCommentAuthorURL:
		return c.CommentAuthorURL
	case ColTimestamp:
		return c.Timestamp
	case ColCommentURL:
		return c.CommentURL
	case ColEmail:
		return c.Email
	case ColFirstName:
		return c.FirstName
	case ColLastName:
		return c.LastName
	}
	return Field{}
}

// ColumnValues returns the present and null columns of r. Absent columns are
// left out so the map can be stored and restored without losing the
// difference between the two.
func ColumnValues(r Record) map[string]Field {
	values := make(map[string]Field, len(Columns))
	for _, col := range Columns {
		if f := r.Column(col); !f.IsAbsent() {
			values[col] = f
		}
	}
	return values
}

// NewRecord rebuilds a record of the given kind from stored column values.
func NewRecord(kind RecordKind, values map[string]Field) Record {
	if kind == KindPost {
		return &Post{
			ID:            values[ColID],
			PostID:        values[ColPostID],
			PostText:      values[ColPostText],
			PostAuthor:    values[ColPostAuthor],
			PostAuthorID:  values[ColPostAuthorID],
			PostAuthorURL: values[ColPostAuthorURL],
			Email:         values[ColEmail],
			FirstName:     values[ColFirstName],
			LastName:      values[ColLastName],
		}
	}
	return &Comment{
		ID:                values[ColID],
		CommentID:         values[ColCommentID],
		PostID:            values[ColPostID],
		CommentText:       values[ColCommentText],
		CommentAuthorName: values[ColCommentAuthorName],
		CommentAuthorID:   values[ColCommentAuthorID],
		CommentAuthorURL:  values[ColCommentAuthorURL],
		Timestamp:         values[ColTimestamp],
		CommentURL:        values[ColCommentURL],
		Email:             values[ColEmail],
		FirstName:         values[ColFirstName],
		LastName:          values[ColLastName],
	}
}
