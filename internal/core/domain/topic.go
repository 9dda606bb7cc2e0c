package domain

import "strings"

// Topic is the closed set of subjects a prospectus question can be about.
type Topic int

// Available topics.
const (
	// TopicFees covers tuition and costs.
	TopicFees Topic = iota

	// TopicAdmissions covers entry requirements.
	TopicAdmissions

	// TopicPrograms covers courses and degrees offered.
	TopicPrograms

	// TopicAccommodation covers student housing.
	TopicAccommodation

	// TopicGeneral is used when no other topic matches.
	TopicGeneral
)

// topicKeywords lists the lowercase substrings that select each topic.
var topicKeywords = map[Topic][]string{
	TopicFees:          {"fee", "cost", "cheap"},
	TopicAdmissions:    {"admission", "requirement"},
	TopicPrograms:      {"program", "course", "degree"},
	TopicAccommodation: {"accommodation", "residence", "housing"},
}

// AllTopics returns the specific topics in classification order, excluding TopicGeneral.
func AllTopics() []Topic {
	return []Topic{TopicFees, TopicAdmissions, TopicPrograms, TopicAccommodation}
}

// Keywords returns the lowercase keywords for the topic.
func (t Topic) Keywords() []string {
	return topicKeywords[t]
}

// MatchesQuery returns true if the lowercased query mentions any keyword of the topic.
func (t Topic) MatchesQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range topicKeywords[t] {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (t Topic) String() string {
	switch t {
	case TopicFees:
		return "fees"
	case TopicAdmissions:
		return "admissions"
	case TopicPrograms:
		return "programs"
	case TopicAccommodation:
		return "accommodation"
	case TopicGeneral:
		return "general"
	default:
		return "unknown"
	}
}

// ClassifyTopics returns every topic the query mentions, in classification order.
// A query that mentions no specific topic is TopicGeneral.
func ClassifyTopics(query string) []Topic {
	var topics []Topic
	for _, t := range AllTopics() {
		if t.MatchesQuery(query) {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		return []Topic{TopicGeneral}
	}
	return topics
}

// HasTopic reports whether topic is in topics.
func HasTopic(topics []Topic, topic Topic) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
