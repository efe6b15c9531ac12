// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference serves the read-only lookup data attached to films.

Genres and MPA ratings are seeded by migrations and never changed through the
API. Films reference them by id; this package resolves those ids to full
records and rejects unknown ones.
*/
package reference

// Genre is a film genre such as "Комедия" or "Драма".
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Mpa is a Motion Picture Association rating such as "PG-13".
type Mpa struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// DefaultGenres mirrors the rows seeded by the reference migration.
var DefaultGenres = []Genre{
	{ID: 1, Name: "Комедия"},
	{ID: 2, Name: "Драма"},
	{ID: 3, Name: "Мультфильм"},
	{ID: 4, Name: "Триллер"},
	{ID: 5, Name: "Документальный"},
	{ID: 6, Name: "Боевик"},
}

// DefaultMpa mirrors the rows seeded by the reference migration.
var DefaultMpa = []Mpa{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}
