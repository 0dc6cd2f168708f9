package quiz

import "fmt"

// Topic identifies a quiz subject area.
type Topic string

const (
	TopicProgramming      Topic = "programming"
	TopicHistory          Topic = "history"
	TopicMathematics      Topic = "mathematics"
	TopicGeneralKnowledge Topic = "general_knowledge"
	TopicScience          Topic = "science"
	TopicGeography        Topic = "geography"
)

// TopicInfo describes a topic for display and prompting.
type TopicInfo struct {
	ID          Topic
	Name        string
	Description string

	// Scope is the longer description fed to the question generator.
	Scope string

	// Color is a hex accent used by the topic picker.
	Color string
}

var topics = []TopicInfo{
	{
		ID:          TopicProgramming,
		Name:        "Programming",
		Description: "JavaScript, Python, algorithms and software concepts",
		Scope:       "Programming (JavaScript, Python, algorithms, software development concepts)",
		Color:       "#3B82F6",
	},
	{
		ID:          TopicHistory,
		Name:        "History",
		Description: "Historical events, civilizations and notable figures",
		Scope:       "History (historical events, ancient civilizations, wars, historical figures)",
		Color:       "#F59E0B",
	},
	{
		ID:          TopicMathematics,
		Name:        "Mathematics",
		Description: "Arithmetic, geometry, algebra and logic",
		Scope:       "Mathematics (calculation, geometry, algebra, mathematical logic)",
		Color:       "#A855F7",
	},
	{
		ID:          TopicGeneralKnowledge,
		Name:        "General Knowledge",
		Description: "Trivia, pop culture, current affairs and assorted facts",
		Scope:       "General knowledge (trivia, pop culture, current affairs, assorted facts)",
		Color:       "#22C55E",
	},
	{
		ID:          TopicScience,
		Name:        "Science",
		Description: "Physics, chemistry, biology and discoveries",
		Scope:       "Science (physics, chemistry, biology, astronomy, scientific discoveries)",
		Color:       "#14B8A6",
	},
	{
		ID:          TopicGeography,
		Name:        "Geography",
		Description: "Countries, capitals, landforms and natural phenomena",
		Scope:       "Geography (countries, capitals, landforms, climate, geographic phenomena)",
		Color:       "#F43F5E",
	},
}

// Topics returns the topic catalog in display order.
func Topics() []TopicInfo {
	out := make([]TopicInfo, len(topics))
	copy(out, topics)
	return out
}

// LookupTopic returns the catalog entry for id.
func LookupTopic(id Topic) (TopicInfo, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return TopicInfo{}, false
}

// Name returns the display name, falling back to the raw id.
func (t Topic) Name() string {
	if info, ok := LookupTopic(t); ok {
		return info.Name
	}
	return string(t)
}

// ParseTopic converts a config or flag value into a known Topic.
func ParseTopic(s string) (Topic, error) {
	if _, ok := LookupTopic(Topic(s)); !ok {
		return "", fmt.Errorf("unknown topic %q", s)
	}
	return Topic(s), nil
}
