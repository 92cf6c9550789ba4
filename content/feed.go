package content

import "time"

// FeedItem is the projection of a post handed to a feed serializer.
type FeedItem struct {
	Title       string
	Description string
	Link        string // always /blog/{slug}
	PubDate     time.Time
	Categories  []string
	Author      string
}

// FeedItems converts posts, in order, into feed items attributed to author.
func FeedItems(posts []Post, author string) []FeedItem {
	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, FeedItem{
			Title:       p.Title,
			Description: p.Summary,
			Link:        p.Link(),
			PubDate:     p.Date,
			Categories:  append([]string(nil), p.Tags...),
			Author:      author,
		})
	}
	return items
}
