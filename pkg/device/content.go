package device

import (
	"regexp"
	"strings"
)

var imageSuffix = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|webp)$`)

// ContentRef is the presentable content of a device, decided once
// at ingestion and stored as a variant
type ContentRef interface {
	Kind() ContentType
	String() string
}

// Iframe is an inline HTML iframe snippet
type Iframe struct{ HTML string }

// Link is a URL to open or embed
type Link struct{ URL string }

// Image is a URL of a picture
type Image struct{ URL string }

// Script is inline script text
type Script struct{ Code string }

func (c Iframe) Kind() ContentType { return CTIframe }
func (c Iframe) String() string    { return c.HTML }
func (c Link) Kind() ContentType   { return CTLink }
func (c Link) String() string      { return c.URL }
func (c Image) Kind() ContentType  { return CTImage }
func (c Image) String() string     { return c.URL }
func (c Script) Kind() ContentType { return CTScript }
func (c Script) String() string    { return c.Code }

// NewContentRef builds the variant denoted by a stored content type,
// unknown or empty tags are treated as links
func NewContentRef(ct ContentType, content string) ContentRef {
	switch ct {
	case CTIframe:
		return Iframe{HTML: content}
	case CTImage:
		return Image{URL: content}
	case CTScript:
		return Script{Code: content}
	default:
		return Link{URL: content}
	}
}

// InferContentRef derives the variant from the shape of the content
func InferContentRef(content string) ContentRef {
	return NewContentRef(InferContentType(content), content)
}

// InferContentType guesses the content type by its prefix or suffix;
// scripts are never inferred, only declared
func InferContentType(content string) ContentType {
	switch {
	case strings.HasPrefix(content, "<iframe"):
		return CTIframe
	case imageSuffix.MatchString(content):
		return CTImage
	default:
		return CTLink
	}
}
