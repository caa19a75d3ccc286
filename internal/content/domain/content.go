package domain

// Subject is a top-level quiz category (e.g. Physics).
type Subject struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

// Topic groups questions within a subject.
type Topic struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	Class     string `json:"class,omitempty"`
	Genre     string `json:"genre,omitempty"`
}

// Question is one multiple-choice quiz question.
type Question struct {
	ID            string   `json:"id"`
	TopicID       string   `json:"topicId"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectOption string   `json:"correctOption"`
	Difficulty    int      `json:"difficulty"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Option is one selectable answer of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
