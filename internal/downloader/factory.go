package downloader

// GetSource returns the source able to enumerate the playlist at url:
// YouTube itself for YouTube URLs, a page scraper backed by yt otherwise.
func GetSource(url string, yt *YouTubeSource, userAgent string) Source {
	if yt.SupportsURL(url) {
		return yt
	}
	return NewPageSource(yt, userAgent)
}
