package schema

// BookTable represents the 'book' table
type BookTable struct {
	Table         string
	ID            string
	Title         string
	Author        string
	PublishedYear string
	Genres        string
	Stock         string
	CreatedAt     string
	UpdatedAt     string
	DeletedAt     string
}

// Book is the schema definition for book
var Book = BookTable{
	Table:         "book",
	ID:            "id",
	Title:         "title",
	Author:        "author",
	PublishedYear: "publishedyear",
	Genres:        "genres",
	Stock:         "stock",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
	DeletedAt:     "deletedat",
}

// Columns lists every column in scan order.
func (t BookTable) Columns() []any {
	return []any{t.ID, t.Title, t.Author, t.PublishedYear, t.Genres, t.Stock, t.CreatedAt, t.UpdatedAt, t.DeletedAt}
}
