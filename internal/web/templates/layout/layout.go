package layout

const (
	// SiteTitle is shown in the page header and the document title
	SiteTitle = "Strategic Board Game"
	// SiteSubtitle describes the board geometry under the title
	SiteSubtitle = "15x15 Viewport on a Wider Board"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "info", "success" or "error"
	Message string
}

// Class returns the banner's CSS classes
func (f *FlashMessage) Class() string {
	return "flash flash-" + f.Type
}

// PageData holds the data every page passes to the layout
type PageData struct {
	Title string
	Flash *FlashMessage
}

// DocumentTitle is the page title followed by the site title
func (d PageData) DocumentTitle() string {
	if d.Title == "" {
		return SiteTitle
	}
	return d.Title + " - " + SiteTitle
}
