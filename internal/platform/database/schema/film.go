package schema

// FilmTable represents the 'film' table
type FilmTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	ReleaseDate string
	Duration    string
	MpaID       string
}

// Film is the schema definition for film
var Film = FilmTable{
	Table:       "film",
	ID:          "id",
	Name:        "name",
	Description: "description",
	ReleaseDate: "release_date",
	Duration:    "duration",
	MpaID:       "mpa_id",
}

// Columns returns all standard column names
func (t FilmTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.ReleaseDate, t.Duration, t.MpaID}
}

// FilmGenreTable represents the 'film_genres' junction table
type FilmGenreTable struct {
	Table   string
	FilmID  string
	GenreID string
}

// FilmGenre is the schema definition for film_genres
var FilmGenre = FilmGenreTable{
	Table:   "film_genres",
	FilmID:  "film_id",
	GenreID: "genre_id",
}

// FilmLikeTable represents the 'film_likes' junction table
type FilmLikeTable struct {
	Table  string
	FilmID string
	UserID string
}

// FilmLike is the schema definition for film_likes
var FilmLike = FilmLikeTable{
	Table:  "film_likes",
	FilmID: "film_id",
	UserID: "user_id",
}
