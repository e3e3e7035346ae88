package search

// graphqlRequest is the JSON envelope sent to the GraphQL endpoint.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// documentPart is one keyed segment of the document being embedded.
type documentPart struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// graphqlResponse is the JSON envelope returned by the GraphQL endpoint.
type graphqlResponse struct {
	Data struct {
		Results []searchHit `json:"encodeDocumentAndSimilaritySearch"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// graphqlError is a single error entry in a GraphQL response.
type graphqlError struct {
	Message string `json:"message"`
}

// searchHit is one ranked hit from the similarity search.
type searchHit struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Index    string  `json:"index"`
	Document struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"document"`
}
