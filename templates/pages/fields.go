package pages

// fieldClass outlines a form control red while it carries a validation message.
func fieldClass(msg string) string {
	border := "border-gray-300"
	if msg != "" {
		border = "border-red-400"
	}
	return "w-full px-4 py-3 rounded-lg border " + border + " focus:ring-2 focus:ring-[#F97316] focus:border-transparent"
}
