package types

// RecentEntry is the minimal record kept in the most-recently-used list
type RecentEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

// WatchURL rebuilds the submission URL for this entry
func (e RecentEntry) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + e.ID
}
