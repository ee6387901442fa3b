// Package insomnia turns a list of API routes into an Insomnia v4 import
// document, with one folder per first path segment.
package insomnia

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mazen160/go-random"
	"github.com/user/feed-harvester/internal/entity"
)

const (
	ExportFormat   = 4
	ExportSource   = "insomnia.desktop.app:v2023.5.8"
	DefaultBaseURL = "http://localhost:3000"

	defaultWorkspaceName = "NestJS Routes"
	workspaceDescription = "Generated workspace"
	environmentName      = "Base Environment"

	rootGroup     = "root"
	wildcardGroup = "Wildcard"
)

// ID prefixes per resource kind.
const (
	PrefixWorkspace   = "wrk_"
	PrefixEnvironment = "env_"
	PrefixFolder      = "fld_"
	PrefixRequest     = "req_"
)

type Builder struct {
	baseURL       string
	workspaceName string
	now           func() time.Time
	newID         func(prefix string) (string, error)
}

type Option func(*Builder)

// WithBaseURL sets the URL prefixed to every route path.
func WithBaseURL(u string) Option {
	return func(b *Builder) { b.baseURL = strings.TrimRight(u, "/") }
}

func WithWorkspaceName(name string) Option {
	return func(b *Builder) { b.workspaceName = name }
}

// WithClock replaces the wall clock used for the export date, sort keys and
// the numeric part of generated ids.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator replaces resource id generation.
func WithIDGenerator(gen func(prefix string) (string, error)) Option {
	return func(b *Builder) { b.newID = gen }
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		baseURL:       DefaultBaseURL,
		workspaceName: defaultWorkspaceName,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.newID == nil {
		b.newID = b.randomID
	}
	return b
}

// randomID is prefix, four random characters and the last six digits of the
// millisecond clock. Collisions are possible but unlikely within one export.
func (b *Builder) randomID(prefix string) (string, error) {
	r, err := random.String(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	ms := strconv.FormatInt(b.now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return prefix + strings.ToLower(r) + ms, nil
}

// GroupKey returns the folder key of a route path: its first segment, with
// "*" mapped to Wildcard and an empty segment to root.
func GroupKey(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	segment := strings.SplitN(path, "/", 3)[1]
	switch segment {
	case "*":
		return wildcardGroup
	case "":
		return rootGroup
	}
	return segment
}

// Capitalize upper-cases the first character of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Build expands routes into an export document. Folders are created in
// first-use order, and each (route, method) pair becomes one request.
func (b *Builder) Build(routes []entity.RouteDefinition) (*entity.InsomniaExport, error) {
	now := b.now().UTC()
	doc := &entity.InsomniaExport{
		Type:         entity.InsomniaTypeExport,
		ExportFormat: ExportFormat,
		ExportDate:   now.Format("2006-01-02T15:04:05.000Z"),
		ExportSource: ExportSource,
	}

	workspaceID, err := b.newID(PrefixWorkspace)
	if err != nil {
		return nil, err
	}
	doc.Resources = append(doc.Resources, &entity.InsomniaWorkspace{
		ID:          workspaceID,
		Type:        entity.InsomniaTypeWorkspace,
		Name:        b.workspaceName,
		Description: workspaceDescription,
		Scope:       "collection",
	})

	envID, err := b.newID(PrefixEnvironment)
	if err != nil {
		return nil, err
	}
	doc.Resources = append(doc.Resources, &entity.InsomniaEnvironment{
		ID:          envID,
		Type:        entity.InsomniaTypeEnvironment,
		ParentID:    workspaceID,
		Name:        environmentName,
		Data:        map[string]any{},
		MetaSortKey: now.UnixMilli(),
	})

	folders := make(map[string]string)
	for _, route := range routes {
		key := GroupKey(route.Path)
		folderID, ok := folders[key]
		if !ok {
			if folderID, err = b.newID(PrefixFolder); err != nil {
				return nil, err
			}
			folders[key] = folderID
			doc.Resources = append(doc.Resources, &entity.InsomniaRequestGroup{
				ID:          folderID,
				Type:        entity.InsomniaTypeRequestGroup,
				ParentID:    workspaceID,
				Name:        Capitalize(key),
				Environment: map[string]any{},
				MetaSortKey: -1,
			})
		}

		for _, method := range route.Methods {
			reqID, err := b.newID(PrefixRequest)
			if err != nil {
				return nil, err
			}
			doc.Resources = append(doc.Resources, b.request(reqID, folderID, route.Path, method))
		}
	}
	return doc, nil
}

func (b *Builder) request(id, folderID, path, method string) *entity.InsomniaRequest {
	return &entity.InsomniaRequest{
		ID:                     id,
		Type:                   entity.InsomniaTypeRequest,
		ParentID:               folderID,
		Name:                   fmt.Sprintf("[%s] %s", method, path),
		Method:                 strings.ToUpper(method),
		URL:                    b.baseURL + path,
		Body:                   map[string]any{},
		Headers:                []entity.InsomniaHeader{},
		Authentication:         map[string]any{},
		MetaSortKey:            -1,
		SettingStoreCookies:    true,
		SettingSendCookies:     true,
		SettingEncodeURL:       true,
		SettingRebuildPath:     true,
		SettingFollowRedirects: "global",
	}
}
