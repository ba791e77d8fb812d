package models

// PageMeta is the best-effort preview metadata extracted from a fetched page.
type PageMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type FetchMetaRequestBody struct {
	URL string `json:"url"`
}
