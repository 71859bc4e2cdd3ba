package validation

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/hiyaw/hiyaw-admin/internal/domain/project"
)

const (
	// MaxImageSize is the per-image upload limit.
	MaxImageSize = 5 * 1024 * 1024
	// MaxVideoSize is the project video upload limit.
	MaxVideoSize = 50 * 1024 * 1024
)

var (
	// ImageTypes are the accepted training image content types.
	ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	// VideoTypes are the accepted project video content types.
	VideoTypes = []string{"video/mp4", "video/webm", "video/ogg", "video/quicktime", "video/x-matroska"}
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register validation tag '%s': %v", tag, err))
		}
	}

	mustRegister("category", validateCategory)
	mustRegister("image_size", maxSize(MaxImageSize))
	mustRegister("image_type", contentTypeIn(ImageTypes))
	mustRegister("video_size", maxSize(MaxVideoSize))
	mustRegister("video_type", contentTypeIn(VideoTypes))

	v.RegisterStructValidation(validateTrainingImages, TrainingInput{})
}

func validateCategory(fl validator.FieldLevel) bool {
	return project.Category(fl.Field().String()).Valid()
}

func maxSize(limit int64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= limit
	}
}

func contentTypeIn(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}

// validateTrainingImages requires at least one image when a session is created.
// On edit an empty list means "keep the stored images".
func validateTrainingImages(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(TrainingInput)
	if !ok {
		return
	}
	if in.Creating && len(in.Images) == 0 {
		sl.ReportError(in.Images, "images", "Images", "min_images", "")
	}
}
