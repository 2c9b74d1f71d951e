package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/url-shortener-go/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// mockService is a test double for URLService that returns configured errors.
type mockService struct {
	createErr    error
	resolveErr   error
	incrementErr error
	statsErr     error
	increments   int
}

func (m *mockService) Create(_ context.Context, originalURL string) (*shortener.Created, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}

	return &shortener.Created{
		ShortURL: shortener.ShortURL{Code: "1", OriginalURL: originalURL},
		FullURL:  "http://localhost:8888/1",
	}, nil
}

func (m *mockService) Resolve(_ context.Context, code shortener.Code) (*shortener.Resolution, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}

	return &shortener.Resolution{Code: code, OriginalURL: testURL}, nil
}

func (m *mockService) IncrementClicks(_ context.Context, _ shortener.Code) error {
	m.increments++

	return m.incrementErr
}

func (m *mockService) Stats(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}

	return &shortener.ShortURL{Code: code, OriginalURL: testURL}, nil
}

func (m *mockService) FullURL(code shortener.Code) string {
	return "http://localhost:8888/" + string(code)
}
