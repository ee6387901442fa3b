package entity

// Resource types of an Insomnia v4 export document.
const (
	InsomniaTypeExport       = "export"
	InsomniaTypeWorkspace    = "workspace"
	InsomniaTypeEnvironment  = "environment"
	InsomniaTypeRequestGroup = "request_group"
	InsomniaTypeRequest      = "request"
)

// InsomniaResource is any entry of InsomniaExport.Resources.
type InsomniaResource interface {
	ResourceID() string
	ResourceType() string
}

// InsomniaExport is the top-level import document. Resources is flat; the
// tree is expressed through ParentID references.
type InsomniaExport struct {
	Type         string             `json:"_type"`
	ExportFormat int                `json:"__export_format"`
	ExportDate   string             `json:"__export_date"`
	ExportSource string             `json:"__export_source"`
	Resources    []InsomniaResource `json:"resources"`
}

type InsomniaWorkspace struct {
	ID          string `json:"_id"`
	Type        string `json:"_type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Scope       string `json:"scope"`
}

func (w *InsomniaWorkspace) ResourceID() string   { return w.ID }
func (w *InsomniaWorkspace) ResourceType() string { return w.Type }

type InsomniaEnvironment struct {
	ID                string         `json:"_id"`
	Type              string         `json:"_type"`
	ParentID          string         `json:"parentId"`
	Name              string         `json:"name"`
	Data              map[string]any `json:"data"`
	DataPropertyOrder *int           `json:"dataPropertyOrder"`
	Color             *string        `json:"color"`
	IsPrivate         bool           `json:"isPrivate"`
	MetaSortKey       int64          `json:"metaSortKey"`
}

func (e *InsomniaEnvironment) ResourceID() string   { return e.ID }
func (e *InsomniaEnvironment) ResourceType() string { return e.Type }

// InsomniaRequestGroup is a folder.
type InsomniaRequestGroup struct {
	ID                       string         `json:"_id"`
	Type                     string         `json:"_type"`
	ParentID                 string         `json:"parentId"`
	Name                     string         `json:"name"`
	Environment              map[string]any `json:"environment"`
	EnvironmentPropertyOrder *int           `json:"environmentPropertyOrder"`
	MetaSortKey              int64          `json:"metaSortKey"`
}

func (g *InsomniaRequestGroup) ResourceID() string   { return g.ID }
func (g *InsomniaRequestGroup) ResourceType() string { return g.Type }

type InsomniaHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type InsomniaRequest struct {
	ID                              string           `json:"_id"`
	Type                            string           `json:"_type"`
	ParentID                        string           `json:"parentId"`
	Name                            string           `json:"name"`
	Method                          string           `json:"method"`
	URL                             string           `json:"url"`
	Body                            map[string]any   `json:"body"`
	Headers                         []InsomniaHeader `json:"headers"`
	Authentication                  map[string]any   `json:"authentication"`
	MetaSortKey                     int64            `json:"metaSortKey"`
	IsPrivate                       bool             `json:"isPrivate"`
	SettingStoreCookies             bool             `json:"settingStoreCookies"`
	SettingSendCookies              bool             `json:"settingSendCookies"`
	SettingDisableRenderRequestBody bool             `json:"settingDisableRenderRequestBody"`
	SettingEncodeURL                bool             `json:"settingEncodeUrl"`
	SettingRebuildPath              bool             `json:"settingRebuildPath"`
	SettingFollowRedirects          string           `json:"settingFollowRedirects"`
}

func (r *InsomniaRequest) ResourceID() string   { return r.ID }
func (r *InsomniaRequest) ResourceType() string { return r.Type }
