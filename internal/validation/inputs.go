package validation

// ImageFile describes one staged training image.
type ImageFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size" validate:"image_size"`
	ContentType string `json:"type" validate:"image_type"`
}

// VideoFile describes the staged project video.
type VideoFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size" validate:"video_size"`
	ContentType string `json:"type" validate:"video_type"`
}

// TrainingInput is a training session submission.
type TrainingInput struct {
	Title       string      `json:"title" validate:"min=3,max=100"`
	Description string      `json:"description" validate:"min=10,max=1000"`
	GoogleLink  string      `json:"google_link" validate:"url"`
	Images      []ImageFile `json:"images" validate:"dive"`
	// Creating marks a create submission, where images are mandatory.
	Creating bool `json:"-"`
}

// ProjectInput is a project submission.
type ProjectInput struct {
	Title       string     `json:"title" validate:"min=3,max=150"`
	Category    string     `json:"category" validate:"category"`
	Description string     `json:"description" validate:"max=2000"`
	VideoFile   *VideoFile `json:"videoFile" validate:"omitempty"`
}
