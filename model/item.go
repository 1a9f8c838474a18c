package model

// ItemType discriminates the concrete catalog item a document represents.
// It is persisted alongside the item's fields so polymorphic collections
// can be decoded back into their concrete types.
type ItemType string

const (
	ItemTypeBook     ItemType = "book"
	ItemTypeMagazine ItemType = "magazine"
	ItemTypeMedia    ItemType = "media"
)

// Valid reports whether t names a known catalog item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeBook, ItemTypeMagazine, ItemTypeMedia:
		return true
	}
	return false
}

// Collection returns the document store collection that holds items of this type.
func (t ItemType) Collection() string {
	switch t {
	case ItemTypeBook:
		return "books"
	case ItemTypeMagazine:
		return "magazines"
	case ItemTypeMedia:
		return "media"
	}
	return ""
}

// Item is the sealed set of catalog entries the search engine operates on.
// Concrete implementations are Book, Magazine and Media; consumers dispatch
// with a type switch rather than inspecting the discriminant by hand.
type Item interface {
	ItemID() string
	Type() ItemType

	sealed()
}
