// Package filterlink derives report and attendance navigation URLs from the
// current filter controls. Nothing here touches the network.
package filterlink

import (
	"net/url"
	"strings"
)

// Report paths served by the web adapter.
const (
	ReportViewPath     = "/admin/reports"
	ReportDownloadPath = "/admin/reports/export"
	AttendancePath     = "/admin/attendance"
)

// ReportFilter carries the three report filter values.
type ReportFilter struct {
	Type      string
	StartDate string
	EndDate   string
}

// Query renders the filter as type, start_date, end_date in that order.
// POST: every value is query-escaped; empty values are kept as empty parameters
func (f ReportFilter) Query() string {
	var b strings.Builder
	b.WriteString("type=")
	b.WriteString(url.QueryEscape(f.Type))
	b.WriteString("&start_date=")
	b.WriteString(url.QueryEscape(f.StartDate))
	b.WriteString("&end_date=")
	b.WriteString(url.QueryEscape(f.EndDate))
	return b.String()
}

// ViewURL returns the report page URL under base. An empty base yields a
// root-relative URL.
func (f ReportFilter) ViewURL(base string) string {
	return join(base, ReportViewPath) + "?" + f.Query()
}

// DownloadURL returns the report export URL under base.
func (f ReportFilter) DownloadURL(base string) string {
	return join(base, ReportDownloadPath) + "?" + f.Query()
}

// AttendanceURL returns the attendance page URL for date under base.
func AttendanceURL(base, date string) string {
	return join(base, AttendancePath) + "?date=" + url.QueryEscape(date)
}

func join(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// Field is a filter control whose value is read at the moment of use.
type Field interface {
	Value() string
}

// FieldFunc adapts a function to Field.
type FieldFunc func() string

func (f FieldFunc) Value() string { return f() }

// LinkTarget receives a recomputed link, e.g. a download anchor.
type LinkTarget interface {
	SetHref(href string)
}

// LinkFunc adapts a function to LinkTarget.
type LinkFunc func(href string)

func (f LinkFunc) SetHref(href string) { f(href) }

// Navigator performs full navigation to a URL.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Fields groups the three report filter controls. A nil field reads as "".
type Fields struct {
	Type      Field
	StartDate Field
	EndDate   Field
}

// Synchronizer keeps a download link in step with the report filter controls
// and drives the explicit "view report" action.
type Synchronizer struct {
	base   string
	fields Fields
	link   LinkTarget
	nav    Navigator
}

// New binds the controls and computes the download link once.
// PRE: link and nav are non-nil
// POST: link holds the download URL for the current field values
func New(base string, fields Fields, link LinkTarget, nav Navigator) *Synchronizer {
	s := &Synchronizer{base: base, fields: fields, link: link, nav: nav}
	s.FieldChanged()
	return s
}

// Current reads the three controls now.
func (s *Synchronizer) Current() ReportFilter {
	return ReportFilter{
		Type:      read(s.fields.Type),
		StartDate: read(s.fields.StartDate),
		EndDate:   read(s.fields.EndDate),
	}
}

// FieldChanged recomputes the download link; call it whenever any control changes.
func (s *Synchronizer) FieldChanged() {
	s.link.SetHref(s.Current().DownloadURL(s.base))
}

// View navigates to the report page for the current control values.
func (s *Synchronizer) View() {
	s.nav.Navigate(s.Current().ViewURL(s.base))
}

func read(f Field) string {
	if f == nil {
		return ""
	}
	return f.Value()
}

// DateNavigator sends the attendance page to a newly selected date.
type DateNavigator struct {
	Base string
	Nav  Navigator
}

// Changed navigates to the attendance page for date.
func (d DateNavigator) Changed(date string) {
	d.Nav.Navigate(AttendanceURL(d.Base, date))
}
