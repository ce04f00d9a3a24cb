package model

// Document is a business-context or learning-resource document read from the
// flat JSON document store. Content is the raw decoded JSON; callers render
// it into prompt text without assuming a fixed shape.
type Document struct {
	Name    string
	Content map[string]any
}
