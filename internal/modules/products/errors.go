package products

import "errors"

var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid product category")
	ErrMissingFields   = errors.New("missing required product fields")
	ErrImageRequired   = errors.New("product image required")
	ErrImageType       = errors.New("product image is not an image")
	ErrImageTooLarge   = errors.New("product image too large")
)

// Message is the visitor-facing text for a validation sentinel.
func Message(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidCategory):
		return "Please fill in all required fields.", true
	case errors.Is(err, ErrImageRequired):
		return "Please select an image for the product.", true
	case errors.Is(err, ErrImageType):
		return "Please select a valid image file.", true
	case errors.Is(err, ErrImageTooLarge):
		return "Image size must be less than 5MB.", true
	default:
		return "", false
	}
}
