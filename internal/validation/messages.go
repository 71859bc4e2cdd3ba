package validation

type rule struct {
	tag     string
	message string
}

// messages lists, per input struct and field, the rules in reporting order.
// When a field breaks several rules the earliest one wins.
var messages = map[string]map[string][]rule{
	"TrainingInput": {
		"title": {
			{"min", "Title must be at least 3 characters long."},
			{"max", "Title must be 100 characters or less."},
		},
		"description": {
			{"min", "Description must be at least 10 characters long."},
			{"max", "Description must be 1000 characters or less."},
		},
		"google_link": {
			{"url", "Please enter a valid URL for the Google link."},
		},
		"images": {
			{"min_images", "At least one image is required."},
			{"image_size", "Each image must be 5MB or less."},
			{"image_type", "Only .jpg, .jpeg, .png, .webp and .gif formats are supported."},
		},
	},
	"ProjectInput": {
		"title": {
			{"min", "Title must be at least 3 characters."},
			{"max", "Title must be 150 characters or less."},
		},
		"category": {
			{"category", "Please select a valid category."},
		},
		"description": {
			{"max", "Description must be 2000 characters or less."},
		},
		"videoFile": {
			{"video_size", "Max video size is 50MB."},
			{"video_type", "Only .mp4, .webm, .ogg, .mov, .mkv formats are supported."},
		},
	},
}

func lookupMessage(structName, field, tag string) (int, string) {
	rules := messages[structName][field]
	for i, r := range rules {
		if r.tag == tag {
			return i, r.message
		}
	}
	return len(rules), "Invalid value."
}
