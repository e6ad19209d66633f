package entity

// Platform is the video platform a thumbnail targets. Each platform implies
// a fixed aspect ratio.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformTikTok    Platform = "TikTok"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
)

// AspectRatio returns the canvas ratio for the platform
func (p Platform) AspectRatio() string {
	switch p {
	case PlatformYouTube:
		return "16:9"
	case PlatformTikTok:
		return "9:16"
	case PlatformInstagram:
		return "1:1"
	case PlatformFacebook:
		return "4:5"
	default:
		return "16:9"
	}
}

// Valid reports whether the platform is one of the supported targets
func (p Platform) Valid() bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformFacebook:
		return true
	}
	return false
}

// Resolution is the requested output size
type Resolution string

const (
	Resolution1K Resolution = "1K"
	Resolution2K Resolution = "2K"
	Resolution4K Resolution = "4K"
)

// Valid reports whether the resolution is supported
func (r Resolution) Valid() bool {
	switch r {
	case Resolution1K, Resolution2K, Resolution4K:
		return true
	}
	return false
}

// ReferenceImage is an inline input image for the generator
type ReferenceImage struct {
	MimeType string
	Data     []byte
}

// ThumbnailRequest carries everything needed to render one thumbnail.
// FaceImage and StyleImage are optional; at most two reference images are
// ever sent to the provider.
type ThumbnailRequest struct {
	Topic      string
	Platform   Platform
	Resolution Resolution
	Intensity  int // 0 to 100
	FaceImage  *ReferenceImage
	StyleImage *ReferenceImage
}

// ThumbnailResult is a rendered image plus its metadata
type ThumbnailResult struct {
	MimeType         string
	Data             []byte
	AspectRatio      string
	CreditsSpent     int
	RemainingCredits int
}
