// Package services contains the application services that sit between the
// REST handlers and the repositories.
package services

import (
	"context"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/errors"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/repository"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/search"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// CatalogService orchestrates catalog item CRUD and delegates searches to
// the engine.
type CatalogService struct {
	books     *repository.Repository[model.Book]
	magazines *repository.Repository[model.Magazine]
	media     *repository.Repository[model.Media]
	engine    *search.Engine
}

// NewCatalogService wires the catalog repositories and the search engine.
func NewCatalogService(
	books *repository.Repository[model.Book],
	magazines *repository.Repository[model.Magazine],
	media *repository.Repository[model.Media],
	engine *search.Engine,
) *CatalogService {
	return &CatalogService{books: books, magazines: magazines, media: media, engine: engine}
}

// SaveBook persists a book, stamping its discriminant.
func (s *CatalogService) SaveBook(ctx context.Context, book model.Book) (model.Book, error) {
	book.ItemType = string(model.ItemTypeBook)
	return s.books.Save(ctx, book)
}

// SaveMagazine persists a magazine, stamping its discriminant.
func (s *CatalogService) SaveMagazine(ctx context.Context, magazine model.Magazine) (model.Magazine, error) {
	magazine.ItemType = string(model.ItemTypeMagazine)
	return s.magazines.Save(ctx, magazine)
}

// SaveMedia persists a media item, stamping its discriminant.
func (s *CatalogService) SaveMedia(ctx context.Context, media model.Media) (model.Media, error) {
	media.ItemType = string(model.ItemTypeMedia)
	return s.media.Save(ctx, media)
}

// GetItem fetches one catalog item by type and id.
func (s *CatalogService) GetItem(ctx context.Context, itemType model.ItemType, id string) (model.Item, error) {
	switch itemType {
	case model.ItemTypeBook:
		book, found, err := s.books.FindByID(ctx, id)
		return presentItem(book, found, err)
	case model.ItemTypeMagazine:
		magazine, found, err := s.magazines.FindByID(ctx, id)
		return presentItem(magazine, found, err)
	case model.ItemTypeMedia:
		media, found, err := s.media.FindByID(ctx, id)
		return presentItem(media, found, err)
	}
	return nil, errors.NewBadRequest("unknown item type")
}

// ListItems returns every item of one type.
func (s *CatalogService) ListItems(ctx context.Context, itemType model.ItemType) ([]model.Item, error) {
	switch itemType {
	case model.ItemTypeBook:
		books, err := s.books.FindAll(ctx)
		return presentItems(books, err)
	case model.ItemTypeMagazine:
		magazines, err := s.magazines.FindAll(ctx)
		return presentItems(magazines, err)
	case model.ItemTypeMedia:
		media, err := s.media.FindAll(ctx)
		return presentItems(media, err)
	}
	return nil, errors.NewBadRequest("unknown item type")
}

// UpdateItem applies a partial field update to one catalog item.
func (s *CatalogService) UpdateItem(ctx context.Context, itemType model.ItemType, id string, fields store.FieldMap) (model.Item, error) {
	// The discriminant travels with the document and must not be rewritten.
	updates := fields.Clone()
	delete(updates, "item_type")

	switch itemType {
	case model.ItemTypeBook:
		book, err := s.books.Update(ctx, id, updates)
		return model.Item(book), err
	case model.ItemTypeMagazine:
		magazine, err := s.magazines.Update(ctx, id, updates)
		return model.Item(magazine), err
	case model.ItemTypeMedia:
		media, err := s.media.Update(ctx, id, updates)
		return model.Item(media), err
	}
	return nil, errors.NewBadRequest("unknown item type")
}

// DeleteItem removes one catalog item; deleting an absent item reports
// false.
func (s *CatalogService) DeleteItem(ctx context.Context, itemType model.ItemType, id string) (bool, error) {
	switch itemType {
	case model.ItemTypeBook:
		return s.books.DeleteByID(ctx, id), nil
	case model.ItemTypeMagazine:
		return s.magazines.DeleteByID(ctx, id), nil
	case model.ItemTypeMedia:
		return s.media.DeleteByID(ctx, id), nil
	}
	return false, errors.NewBadRequest("unknown item type")
}

// SetAvailability flips an item's available flag.
func (s *CatalogService) SetAvailability(ctx context.Context, itemType model.ItemType, id string, available bool) (model.Item, error) {
	return s.UpdateItem(ctx, itemType, id, store.FieldMap{"available": available})
}

// CountItems returns the store-side count for one item type.
func (s *CatalogService) CountItems(ctx context.Context, itemType model.ItemType) (int64, error) {
	switch itemType {
	case model.ItemTypeBook:
		return s.books.Count(ctx)
	case model.ItemTypeMagazine:
		return s.magazines.Count(ctx)
	case model.ItemTypeMedia:
		return s.media.Count(ctx)
	}
	return 0, errors.NewBadRequest("unknown item type")
}

// Engine exposes the search engine for the search handlers.
func (s *CatalogService) Engine() *search.Engine { return s.engine }

func presentItem[T model.Item](item T, found bool, err error) (model.Item, error) {
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.ErrNotFound
	}
	return item, nil
}

func presentItems[T model.Item](items []T, err error) ([]model.Item, error) {
	if err != nil {
		return nil, err
	}
	out := make([]model.Item, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}
