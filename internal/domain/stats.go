package domain

// ReadingStats summarises the book store. It is recomputed on every request.
type ReadingStats struct {
	Year             int      `json:"year"`
	TotalBooks       int      `json:"totalBooks"`
	BooksRead        int      `json:"booksRead"`
	CurrentlyReading int      `json:"currentlyReading"`
	WantToRead       int      `json:"wantToRead"`
	DNF              int      `json:"dnf"`
	PagesRead        int      `json:"pagesRead"`
	AverageRating    *float64 `json:"averageRating"`
	BooksThisYear    int      `json:"booksThisYear"`
}
