package constants

const (
	APP_NAME          = "Pressroom"
	MAX_POSTS_TO_SHOW = 2000

	// Shown instead of a missing image on imported news posts
	DEFAULT_POST_IMAGE_URL = "https://images.unsplash.com/photo-1498671546682-94a232c26d17?auto=format&fit=crop&w=898&q=80"

	// "March 01, 2024"
	DISPLAY_DATE_LAYOUT = "January 02, 2006"

	MAX_COMMENT_LENGTH = 2000
)
