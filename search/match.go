package search

import (
	"sort"
	"strings"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/mapper"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// decodeItem turns a raw document into its concrete catalog type based on
// the item_type discriminant. The second return is false for unknown or
// missing discriminants, which callers skip rather than error on.
func decodeItem(doc store.FieldMap) (model.Item, bool, error) {
	discriminant, _ := doc["item_type"].(string)

	switch model.ItemType(discriminant) {
	case model.ItemTypeBook:
		book, err := mapper.ToEntity[model.Book](doc)
		return book, err == nil, err
	case model.ItemTypeMagazine:
		magazine, err := mapper.ToEntity[model.Magazine](doc)
		return magazine, err == nil, err
	case model.ItemTypeMedia:
		media, err := mapper.ToEntity[model.Media](doc)
		return media, err == nil, err
	}
	return nil, false, nil
}

// representative returns the field fuzzy and partial matching compare
// against. Titles identify catalog items across all three types.
func representative(item model.Item) string {
	switch it := item.(type) {
	case model.Book:
		return it.Title
	case model.Magazine:
		return it.Title
	case model.Media:
		return it.Title
	}
	return ""
}

// searchableText returns every free-text field of the item, lower-cased.
func searchableText(item model.Item) []string {
	switch it := item.(type) {
	case model.Book:
		return []string{fold(it.Title), fold(it.Author), fold(it.ISBN)}
	case model.Magazine:
		return []string{fold(it.Title), fold(it.Publisher), fold(it.ISSN)}
	case model.Media:
		return []string{fold(it.Title), fold(it.Director), fold(it.Genre)}
	}
	return nil
}

// fieldValue resolves a criteria field name against the item's concrete
// type. Unknown fields return false and exclude the item from filtered
// results.
func fieldValue(item model.Item, field string) (string, bool) {
	switch it := item.(type) {
	case model.Book:
		switch field {
		case "id":
			return it.ID, true
		case "title":
			return it.Title, true
		case "author":
			return it.Author, true
		case "isbn":
			return it.ISBN, true
		}
	case model.Magazine:
		switch field {
		case "id":
			return it.ID, true
		case "title":
			return it.Title, true
		case "publisher":
			return it.Publisher, true
		case "issn":
			return it.ISSN, true
		}
	case model.Media:
		switch field {
		case "id":
			return it.ID, true
		case "title":
			return it.Title, true
		case "director":
			return it.Director, true
		case "genre":
			return it.Genre, true
		}
	}
	return "", false
}

// matchesCriteria applies the type-appropriate matcher: free-text
// containment over the item's searchable fields plus the optional equality
// filter. Sort is applied separately after matching.
func matchesCriteria(item model.Item, criteria model.SearchCriteria) bool {
	if criteria.HasTerm() {
		term := fold(criteria.SearchTerm)
		matched := false
		for _, text := range searchableText(item) {
			if strings.Contains(text, term) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if criteria.HasFilter() {
		value, ok := fieldValue(item, criteria.FilterField)
		if !ok || value != criteria.FilterValue {
			return false
		}
	}

	return true
}

// sortItems orders items in place by the named field. Items without the
// field sort last. Without a sort field the store-defined order stands.
func sortItems(items []model.Item, field string, desc bool) {
	if field == "" {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := fieldValue(items[i], field)
		b, bok := fieldValue(items[j], field)
		if aok != bok {
			return aok
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

func fold(s string) string { return strings.ToLower(s) }
