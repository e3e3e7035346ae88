package epo

// tokenResponse is the OAuth token payload from the OPS auth endpoint.
// OPS returns expires_in as a string of seconds.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// worldPatentData is the root element of an OPS published-data response.
// Struct tags match on local element names so the exchange and ops
// namespaces do not need to be spelled out.
type worldPatentData struct {
	ExchangeDocuments struct {
		Documents []exchangeDocument `xml:"exchange-document"`
	} `xml:"exchange-documents"`
}

// exchangeDocument is a single patent document in the exchange format.
type exchangeDocument struct {
	BibliographicData bibliographicData `xml:"bibliographic-data"`
	Abstracts         []abstract        `xml:"abstract"`
}

type bibliographicData struct {
	PublicationReference publicationReference `xml:"publication-reference"`
	Parties              parties              `xml:"parties"`
	InventionTitles      []inventionTitle     `xml:"invention-title"`
}

type publicationReference struct {
	DocumentIDs []documentID `xml:"document-id"`
}

type documentID struct {
	Type      string `xml:"document-id-type,attr"`
	DocNumber string `xml:"doc-number"`
	Date      string `xml:"date"`
}

type parties struct {
	Applicants struct {
		Applicants []applicant `xml:"applicant"`
	} `xml:"applicants"`
	Inventors struct {
		Inventors []inventor `xml:"inventor"`
	} `xml:"inventors"`
}

type applicant struct {
	Name struct {
		Name string `xml:"name"`
	} `xml:"applicant-name"`
}

type inventor struct {
	Name struct {
		Name string `xml:"name"`
	} `xml:"inventor-name"`
}

type inventionTitle struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type abstract struct {
	Lang       string   `xml:"lang,attr"`
	Paragraphs []string `xml:"p"`
}
