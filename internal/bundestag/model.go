package bundestag

// Kind is the DIP document type. Only transcripts are analysed.
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindOther      Kind = "other"
)

// dokumentartProtokoll is the DIP value for plenary transcripts.
const dokumentartProtokoll = "Plenarprotokoll"

// Source locates the published files of a document.
type Source struct {
	PDFURL string `json:"pdf_url,omitempty"`
	XMLURL string `json:"xml_url,omitempty"`
	ID     string `json:"id,omitempty"`
	Type   string `json:"typ,omitempty"`
}

// Document is one plenary transcript as returned by the API.
// It is never modified after decoding.
type Document struct {
	ID          string  `json:"id"`
	Dokumentart string  `json:"dokumentart"`
	Number      string  `json:"dokumentnummer"`
	Date        string  `json:"datum"`
	Title       string  `json:"titel"`
	Text        string  `json:"text,omitempty"`
	Publisher   string  `json:"herausgeber"`
	Period      int     `json:"wahlperiode"`
	Source      *Source `json:"fundstelle,omitempty"`
	Updated     string  `json:"aktualisiert,omitempty"`
}

// Kind maps the DIP document type onto the two kinds the app distinguishes.
func (d *Document) Kind() Kind {
	if d.Dokumentart == dokumentartProtokoll {
		return KindTranscript
	}
	return KindOther
}

// Meta is the lightweight metadata shown in result lists.
type Meta struct {
	ID        string
	Number    string
	Date      string
	Title     string
	Publisher string
	Period    int
	TextChars int
	PDFURL    string
}

// Meta derives list metadata without copying the text body.
func (d *Document) Meta() Meta {
	m := Meta{
		ID:        d.ID,
		Number:    d.Number,
		Date:      d.Date,
		Title:     d.Title,
		Publisher: d.Publisher,
		Period:    d.Period,
		TextChars: len([]rune(d.Text)),
	}
	if d.Source != nil {
		m.PDFURL = d.Source.PDFURL
	}
	return m
}

// Query filters a transcript search. Period is required.
type Query struct {
	Period int
	// Start and End are ISO dates (YYYY-MM-DD); empty means unbounded.
	Start  string
	End    string
	Title  string
	Cursor string
	// Limit overrides PageSize; only Verify uses it.
	Limit int
}

// Page is one server page; documents keep the server order.
type Page struct {
	NumFound  int        `json:"numFound"`
	Cursor    string     `json:"cursor,omitempty"`
	Documents []Document `json:"documents"`
}
