package viewmodels

import (
	"html/template"
	"time"

	"harrow/internal/models"
)

const stampFormat = "2006/01/02 15:04:05.000000"

// PageView is a page prepared for display: rendered content, resolved
// author names, and timestamps formatted in the viewer's timezone.
type PageView struct {
	ID        string
	Title     string
	Content   template.HTML
	CreatedBy string
	CreatedAt string
	UpdatedBy string
	UpdatedAt string
	NoEdit    bool
}

// NewPageView converts a page, resolving user ids through toName and
// localizing timestamps to loc. Content stays empty; controllers fill
// it in after rendering the markup.
func NewPageView(p models.Page, loc *time.Location, toName func(string) string) PageView {
	return PageView{
		ID:        p.ID,
		Title:     p.Title,
		CreatedBy: toName(p.Created.By),
		CreatedAt: p.Created.Date.In(loc).Format(stampFormat),
		UpdatedBy: toName(p.Updated.By),
		UpdatedAt: p.Updated.Date.In(loc).Format(stampFormat),
	}
}

// BaseData holds what the layout needs on every page.
type BaseData struct {
	Title   string
	Latest  []PageView
	Message string
}

// ContentData renders a single page view.
type ContentData struct {
	BaseData
	Page PageView
}

// EditData renders the page editor, for both new pages and edits.
type EditData struct {
	BaseData
	PostTo      string
	PageTitle   string
	PageContent string
}

// IndexGroupView is one letter of the alphabetical index.
type IndexGroupView struct {
	Key   string
	Pages []PageView
}

// IndexData renders the alphabetical index.
type IndexData struct {
	BaseData
	Groups []IndexGroupView
}

// SearchResultView is one ranked hit.
type SearchResultView struct {
	Page   PageView
	Points int
}

// SearchData renders the search result list.
type SearchData struct {
	BaseData
	Query   string
	Results []SearchResultView
	Count   int
	Seconds float64
}

// UserFormData renders the user create/edit form.
type UserFormData struct {
	BaseData
	NewUser bool
	PostTo  string
}

// ArchiveEntryView is one snapshot in a page's archive listing.
type ArchiveEntryView struct {
	ID   string
	Date string
}

// ArchiveListData renders the snapshot list of one page.
type ArchiveListData struct {
	BaseData
	PageID  string
	Entries []ArchiveEntryView
}

// ArchiveData renders a single snapshot with its diff against the
// live page.
type ArchiveData struct {
	BaseData
	PageID   string
	Archived string
	Page     PageView
	Diff     template.HTML
}
