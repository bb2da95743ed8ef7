package driven

import "context"

// PosterCatalog searches an external movie catalog for poster artwork.
type PosterCatalog interface {
	// SearchByTitle returns catalog movies matching the title, in catalog order.
	// Year narrows the search when non-empty.
	SearchByTitle(ctx context.Context, title, year string) ([]CatalogMovie, error)

	// FetchImage downloads the image at the given poster path.
	FetchImage(ctx context.Context, posterPath string) ([]byte, error)
}

// CatalogMovie is one catalog search result.
type CatalogMovie struct {
	// Title is the catalog title.
	Title string

	// PosterPath is the image path, nil when the movie has no poster.
	PosterPath *string

	// ReleaseDate is the catalog release date (YYYY-MM-DD), possibly empty.
	ReleaseDate string
}
