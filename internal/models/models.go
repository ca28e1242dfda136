package models

// Product represents a normalized catalog record. Images and Features are
// proper slices here; the comma-joined wire encoding stays inside the
// upstream adapter.
type Product struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	Category    string   `json:"category,omitempty"`
	Source      string   `json:"source"`
	Images      []string `json:"images"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features"`
	URL         string   `json:"url"`
}

// Recommendation is a lightweight product reference attached to an assistant
// chat reply.
type Recommendation struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	TargetURL string `json:"url"`
}

// Message senders
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one entry in a chat transcript
type Message struct {
	Text            string           `json:"text"`
	Sender          string           `json:"sender"`
	Recommendations []Recommendation `json:"recommendations"`
}

// FilterAll is the view filter that matches every source tag
const FilterAll = "All"
