// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package film manages the film catalogue, user likes and the popularity ranking.

# Architecture

  - Entities: Film, with references to [reference.Mpa] and [reference.Genre].
  - Storage: [Repository] with PostgreSQL and in-memory implementations.
  - Ranking: films ordered by like count descending, then id ascending.

Films are never deleted. Genres attached to a film form a set; the stored order
is always ascending by genre id.
*/
package film

import (
	"github.com/taibuivan/filmorate/internal/core/reference"
	"github.com/taibuivan/filmorate/pkg/date"
	"github.com/taibuivan/filmorate/pkg/slice"
)

// # Domain Entities

// Film is a catalogue entry.
type Film struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ReleaseDate date.Date `json:"releaseDate"`
	Duration    int       `json:"duration"`

	// Mpa is optional. On input only the id is read.
	Mpa *reference.Mpa `json:"mpa"`

	// Genres is a set ordered by id. On input only the ids are read.
	Genres []reference.Genre `json:"genres"`

	// Likes holds the ids of users who liked the film, ascending. Read-only.
	Likes []int64 `json:"likes"`
}

// GenreIDs returns the ids of the attached genres.
func (film *Film) GenreIDs() []int64 {
	return slice.Map(film.Genres, func(genre reference.Genre) int64 { return genre.ID })
}

// LikeCount returns the number of users who liked the film.
func (film *Film) LikeCount() int {
	return len(film.Likes)
}

// clone returns a deep copy so callers never share slices or the rating pointer.
func (film *Film) clone() *Film {
	copied := *film
	if film.Mpa != nil {
		rating := *film.Mpa
		copied.Mpa = &rating
	}
	copied.Genres = append([]reference.Genre{}, film.Genres...)
	copied.Likes = append([]int64{}, film.Likes...)
	return &copied
}
