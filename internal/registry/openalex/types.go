package openalex

// Work represents a single work record from the OpenAlex API.
// Only the fields needed for document enrichment are mapped; the API
// returns many more.
type Work struct {
	ID                    string           `json:"id"`
	DisplayName           string           `json:"display_name"`
	Title                 string           `json:"title"`
	PublicationDate       string           `json:"publication_date"`
	Authorships           []Authorship     `json:"authorships"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

// Authorship links an author to the institutions they were affiliated with
// for this work.
type Authorship struct {
	Author       Author        `json:"author"`
	Institutions []Institution `json:"institutions"`
}

// Author is the author record inside an authorship.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Institution is an affiliated institution inside an authorship.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
