package schema

// GenresTable represents the 'genres' lookup table
type GenresTable struct {
	Table string
	ID    string
	Name  string
}

// Genres is the schema definition for genres
var Genres = GenresTable{
	Table: "genres",
	ID:    "id",
	Name:  "name",
}

// MpaTable represents the 'mpa' lookup table
type MpaTable struct {
	Table string
	ID    string
	Name  string
}

// Mpa is the schema definition for mpa
var Mpa = MpaTable{
	Table: "mpa",
	ID:    "id",
	Name:  "name",
}
