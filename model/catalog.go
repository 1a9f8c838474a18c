package model

// Book is a catalog entry for a printed book.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	ItemType  string `json:"item_type"`
	Available bool   `json:"available"`
}

func (b Book) ItemID() string { return b.ID }
func (b Book) Type() ItemType { return ItemTypeBook }
func (Book) sealed()          {}

// Magazine is a catalog entry for a periodical issue.
type Magazine struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	ISSN      string `json:"issn"`
	ItemType  string `json:"item_type"`
	Available bool   `json:"available"`
}

func (m Magazine) ItemID() string { return m.ID }
func (m Magazine) Type() ItemType { return ItemTypeMagazine }
func (Magazine) sealed()          {}

// Media is a catalog entry for film, music and other non-print material.
type Media struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Director  string `json:"director"`
	Genre     string `json:"genre"`
	ItemType  string `json:"item_type"`
	Available bool   `json:"available"`
}

func (m Media) ItemID() string { return m.ID }
func (m Media) Type() ItemType { return ItemTypeMedia }
func (Media) sealed()          {}
