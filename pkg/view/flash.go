package view

// FlashKind is the tone of a one-shot notice shown after a redirect, such as
// "Product added successfully!" on the console or the contact thank-you line.
type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Valid reports whether k is one of the four kinds the banner can draw.
func (k FlashKind) Valid() bool {
	switch k {
	case FlashInfo, FlashSuccess, FlashWarning, FlashError:
		return true
	}
	return false
}

type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Palette returns the banner's background, border and text classes.
func (f Flash) Palette() string {
	switch f.Kind {
	case FlashSuccess:
		return "bg-green-50 border-green-200 text-green-800"
	case FlashError:
		return "bg-red-50 border-red-200 text-red-800"
	case FlashWarning:
		return "bg-yellow-50 border-yellow-200 text-yellow-800"
	}
	return "bg-blue-50 border-blue-200 text-blue-800"
}

// Role is "alert" for problems the admin must act on and "status" otherwise.
func (f Flash) Role() string {
	if f.Kind == FlashError || f.Kind == FlashWarning {
		return "alert"
	}
	return "status"
}
