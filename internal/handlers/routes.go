package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-url",
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short URL",
		Description:   "Allocates a new short code for the URL. Shortening the same URL twice yields two codes.",
		Tags:          []string{"URLs"},
		DefaultStatus: http.StatusCreated,
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-short-url",
		Method:      http.MethodGet,
		Path:        "/urls/{code}",
		Summary:     "Resolve short URL",
		Description: "Returns the original URL for the short code and counts one click.",
		Tags:        []string{"URLs"},
	}, urlHandler.ResolveURL)

	huma.Register(api, huma.Operation{
		OperationID: "get-short-url-stats",
		Method:      http.MethodGet,
		Path:        "/urls/{code}/stats",
		Summary:     "Short URL statistics",
		Description: "Returns the stored record of the short code, including its click count.",
		Tags:        []string{"URLs"},
	}, urlHandler.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL associated with the short code.",
		Tags:        []string{"URLs"},
	}, urlHandler.RedirectToURL)
}
