package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" format:"uri" json:"url" maxLength:"2048" minLength:"1"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		Code        string    `doc:"The short code"     example:"1"                                  json:"code"`
		ShortURL    string    `doc:"The full short URL" example:"http://localhost:8888/1"            json:"shortUrl"`
		OriginalURL string    `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
		CreatedAt   time.Time `doc:"Creation time"                                                   json:"createdAt"`
		UpdatedAt   time.Time `doc:"Last update time"                                                json:"updatedAt"`
	}
}

// CodeRequest addresses a short URL by its code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"1" maxLength:"11" minLength:"1" path:"code"`
}

// ResolveResponse is the JSON resolution of a short code.
type ResolveResponse struct {
	Body struct {
		Code        string `doc:"The short code"   example:"1"                   json:"code"`
		OriginalURL string `doc:"The original URL" example:"https://example.com" json:"originalUrl"`
	}
}

// StatsResponse reports the stored record of a short code.
type StatsResponse struct {
	Body struct {
		Code        string    `doc:"The short code"                  json:"code"`
		ShortURL    string    `doc:"The full short URL"              json:"shortUrl"`
		OriginalURL string    `doc:"The original URL"                json:"originalUrl"`
		ClickCount  int64     `doc:"Number of times the code was followed" json:"clickCount"`
		CreatedAt   time.Time `doc:"Creation time"                   json:"createdAt"`
		UpdatedAt   time.Time `doc:"Last update time"                json:"updatedAt"`
	}
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}
