// Package models defines the core domain models for the Little Lemon menu service.
package models

// MenuItem represents a single sellable entry on the restaurant menu.
type MenuItem struct {
	// ID is the unique identifier for the item. Assigned by the store on
	// first insert; preserved as supplied on a full replace.
	ID int64 `json:"id"`

	// Name is the display name of the item (e.g., "Greek Salad").
	Name string `json:"name"`

	// Price is the item price. Display formatting is a presentation concern.
	Price float64 `json:"price"`

	// Description is free-form text describing the item.
	Description string `json:"description"`

	// Image is a filename resolved against a remote image base path at
	// display time. The service never fetches or stores image bytes.
	Image string `json:"image"`

	// Category is a lowercase grouping label (e.g., "starters", "mains",
	// "desserts"). The set is open: any text is accepted and used verbatim
	// as a grouping key.
	Category string `json:"category"`
}

// Section is a display grouping of menu items sharing a category.
// It is derived from a query result on every call and never persisted.
type Section struct {
	// Title is the category shared by every item in the section.
	Title string `json:"title"`

	// Items are the section's items, in the order the store returned them.
	Items []MenuItem `json:"items"`
}
