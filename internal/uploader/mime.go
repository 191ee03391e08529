package uploader

import (
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is used when the extension is unknown or missing
const DefaultContentType = "application/octet-stream"

// webTypes are registered over the host tables so a slim CI image without
// /etc/mime.types resolves common static site assets the same way as a
// full one. Values follow mime-db.
var webTypes = map[string]string{
	".htm":         "text/html",
	".html":        "text/html",
	".css":         "text/css",
	".js":          "application/javascript",
	".mjs":         "application/javascript",
	".json":        "application/json",
	".webmanifest": "application/manifest+json",
	".xml":         "application/xml",
	".rss":         "application/rss+xml",
	".atom":        "application/atom+xml",
	".txt":         "text/plain",
	".md":          "text/markdown",
	".csv":         "text/csv",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".svg":         "image/svg+xml",
	".ico":         "image/vnd.microsoft.icon",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".otf":         "font/otf",
	".eot":         "application/vnd.ms-fontobject",
	".mp3":         "audio/mpeg",
	".ogg":         "audio/ogg",
	".mp4":         "video/mp4",
	".webm":        "video/webm",
	".mov":         "video/quicktime",
	".wasm":        "application/wasm",
	".pdf":         "application/pdf",
	".zip":         "application/zip",
	".gz":          "application/gzip",
	".tar":         "application/x-tar",
}

func init() {
	for ext, typ := range webTypes {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

// ContentType resolves a content type from the file extension of name
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return DefaultContentType
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return DefaultContentType
	}
	return stripParams(contentType)
}

// resolveContentType falls back to sniffing body when sniff is set and the
// extension gives nothing better than the default
func resolveContentType(name string, body []byte, sniff bool) string {
	contentType := ContentType(name)
	if contentType != DefaultContentType || !sniff || len(body) == 0 {
		return contentType
	}
	return stripParams(mimetype.Detect(body).String())
}

// stripParams drops parameters such as "; charset=utf-8"
func stripParams(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	return contentType
}
