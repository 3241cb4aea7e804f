package validation

// Shared form schemas. One schema instance per form shape; the web pages run
// them before any network call and the API handlers run them again on the
// decoded request body.

func LoginSchema() *Schema {
	return NewSchema(
		Field{Name: "email", Label: "Email", Rules: "required,email"},
		Field{Name: "password", Label: "Password", Rules: "required,min=6"},
	)
}

func RegisterSchema() *Schema {
	return NewSchema(
		Field{Name: "name", Label: "Name", Rules: "required"},
		Field{Name: "email", Label: "Email", Rules: "required,email"},
		Field{Name: "password", Label: "Password", Rules: "required,min=6"},
	)
}

func FeedSchema() *Schema {
	return NewSchema(
		Field{Name: "name", Label: "Name", Rules: "required"},
		Field{Name: "url", Label: "URL", Rules: "required,url"},
	)
}
