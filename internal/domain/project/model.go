package project

import (
	"slices"
	"time"
)

// Category classifies an animation project.
type Category string

const (
	CategoryStorytelling     Category = "storytelling"
	CategorySocialAwareness  Category = "social-awareness"
	CategoryMentalHealth     Category = "mental-health"
	CategoryCulturalHeritage Category = "cultural-heritage"
	CategoryTutorial         Category = "tutorial"
	CategoryShowcase         Category = "showcase"
	CategoryExperimental     Category = "experimental"
	CategoryShortFilm        Category = "short-film"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStorytelling,
	CategorySocialAwareness,
	CategoryMentalHealth,
	CategoryCulturalHeritage,
	CategoryTutorial,
	CategoryShowcase,
	CategoryExperimental,
	CategoryShortFilm,
}

// DefaultCategory is preselected on new projects.
const DefaultCategory = CategoryStorytelling

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Video is the stored video of a project.
type Video struct {
	URL       string `json:"url"`
	StorageID string `json:"cloudinary_id,omitempty"`
}

// Project is an animation project as held by the backend.
type Project struct {
	ID          string    `json:"_id,omitempty"`
	Title       string    `json:"title"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	Video       *Video    `json:"video,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Clone returns a deep copy so a form can hold a snapshot.
func (p Project) Clone() Project {
	if p.Video != nil {
		v := *p.Video
		p.Video = &v
	}
	return p
}

// VideoURLs returns the persisted video URL, if any, as a list.
func (p Project) VideoURLs() []string {
	if p.Video == nil || p.Video.URL == "" {
		return nil
	}
	return []string{p.Video.URL}
}
