package careermentor

import "strings"

type route struct {
	keywords []string
	agent    *Agent
}

// routes are checked in order; the first rule with a keyword present wins.
var routes = []route{
	{keywords: []string{"skill", "learn", "roadmap"}, agent: SkillAgent},
	{keywords: []string{"job", "role", "title"}, agent: JobAgent},
}

// SelectAgent picks the agent that handles a turn from the latest user
// message. Keywords match as case-insensitive substrings; CareerAgent handles
// everything else.
func SelectAgent(latest string) *Agent {
	text := strings.ToLower(latest)
	for _, r := range routes {
		for _, keyword := range r.keywords {
			if strings.Contains(text, keyword) {
				return r.agent
			}
		}
	}
	return CareerAgent
}
