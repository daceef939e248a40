package downloader

import (
	"mime"
	"strings"
)

var mimeExtensions = map[string]string{
	"mp4":   "mp4",
	"webm":  "webm",
	"3gpp":  "3gp",
	"x-flv": "flv",
}

func sanitizeTitle(title string) string {
	replacer := strings.NewReplacer("/", "-", ":", "-", "\"", "'", "?", "", "\\", "-", "|", "-", "*", "", "<", "", ">", "")
	return strings.TrimSpace(replacer.Replace(title))
}

// fileName builds the on-disk name of a downloaded stream.
func fileName(video *Video, stream Stream) string {
	name := sanitizeTitle(video.Title)
	if name == "" {
		name = video.ID
	}
	if name == "" {
		name = "video"
	}
	return name + "." + extensionForMime(stream.MimeType)
}

func extensionForMime(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "mp4"
	}
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok {
		return "mp4"
	}
	if ext, ok := mimeExtensions[subtype]; ok {
		return ext
	}
	return "mp4"
}
