package todo

// Todo is one item in the collection.
type Todo struct {
	// ID is an opaque unique identifier assigned by the store at creation.
	// Immutable for the lifetime of the item.
	ID string `json:"id"`

	// Title is free-form text. The only mutable field.
	Title string `json:"title"`

	// Completed defaults to false at creation and is not settable through
	// any exposed operation.
	Completed bool `json:"completed"`
}
