package parsers

import "strings"

// NoTopicToken is the literal the topic-extraction prompt asks for when the
// utterance carries no extractable topic.
const NoTopicToken = "none"

// ParseTopic extracts a topic from raw model output. It returns the empty
// string when the model reported the no-topic token or produced nothing
// usable.
func ParseTopic(content string) string {
	s := StripCodeFence(content)
	s = strings.TrimSpace(s)

	// tolerate the "topic: <topic>" shape from the prompt example
	if idx := strings.Index(strings.ToLower(s), "topic:"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("topic:"):])
	}
	s = strings.Trim(s, "\"'`")

	if s == "" || strings.EqualFold(s, NoTopicToken) {
		return ""
	}
	return s
}
