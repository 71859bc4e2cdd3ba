package training

import "time"

// Image is a stored training session image.
type Image struct {
	URL       string `json:"url"`
	StorageID string `json:"cloudinary_id,omitempty"`
}

// Session is a training session as held by the backend.
type Session struct {
	ID          string    `json:"_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GoogleLink  string    `json:"google_link"`
	Images      []Image   `json:"images,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Clone returns a deep copy so a form can hold a snapshot.
func (s Session) Clone() Session {
	if s.Images != nil {
		s.Images = append([]Image(nil), s.Images...)
	}
	return s
}

// ImageURLs returns the persisted image URLs in order.
func (s Session) ImageURLs() []string {
	urls := make([]string, 0, len(s.Images))
	for _, img := range s.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}
