package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Search(ctx context.Context, term string) ([]catalog.Track, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Track), args.Error(1)
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, term string) ([]catalog.Album, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Album), args.Error(1)
}

func (m *MockCatalog) Lookup(ctx context.Context, collectionID int64) ([]catalog.Track, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Track), args.Error(1)
}

func (m *MockCatalog) FeaturedAlbums(ctx context.Context) (string, []catalog.Album, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]catalog.Album), args.Error(2)
}
