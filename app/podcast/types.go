package podcast

// Podcast is a podcast as described by gpodder.net
type Podcast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Subscribers int    `json:"subscribers"`
	LogoURL     string `json:"logo_url"`
	URL         string `json:"url"` // RSS feed URL
}

// Episode is a single entry of a device's episode update feed.
// PodcastTitle is the grouping key used for scheduling; it is not a stable identifier.
type Episode struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	PodcastTitle string `json:"podcast_title"`
	PodcastURL   string `json:"podcast_url"`
	Description  string `json:"description"`
	Website      string `json:"website"`
	Released     string `json:"released"` // ISO 8601 timestamp as sent by gpodder
	Status       string `json:"status"`
}

type Device struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	Type          string `json:"type"`
	Subscriptions int    `json:"subscriptions"`
}

type Tag struct {
	Title string `json:"title"`
	Tag   string `json:"tag"`
	Usage int    `json:"usage"`
}

// WithTitle drops podcasts without a title, keeping the order of the rest
func WithTitle(podcasts []Podcast) []Podcast {
	result := make([]Podcast, 0, len(podcasts))
	for _, p := range podcasts {
		if p.Title != "" {
			result = append(result, p)
		}
	}
	return result
}

// Descriptions returns the description of every podcast in order
func Descriptions(podcasts []Podcast) []string {
	descriptions := make([]string, len(podcasts))
	for i, p := range podcasts {
		descriptions[i] = p.Description
	}
	return descriptions
}
