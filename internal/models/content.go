package models

// HeaderImageModel is a header poster image.
type HeaderImageModel struct {
	ContentBase `bson:",inline"`
	ImageURL    string `bson:"imageUrl" json:"imageUrl"`
	AltText     string `bson:"altText"  json:"altText"`
	Order       int    `bson:"order"    json:"order"`
}

func (m *HeaderImageModel) MediaURL() string       { return m.ImageURL }
func (m *HeaderImageModel) SetMediaURL(url string) { m.ImageURL = url }

// VideoPosition is where a header video is placed on the poster.
type VideoPosition string

const (
	VideoPositionLeft   VideoPosition = "left"
	VideoPositionRight  VideoPosition = "right"
	VideoPositionCenter VideoPosition = "center"
)

// Valid reports whether p is a known position.
func (p VideoPosition) Valid() bool {
	switch p {
	case VideoPositionLeft, VideoPositionRight, VideoPositionCenter:
		return true
	}
	return false
}

// HeaderVideoModel is a header poster video.
type HeaderVideoModel struct {
	ContentBase `bson:",inline"`
	VideoURL    string        `bson:"videoUrl" json:"videoUrl"`
	AltText     string        `bson:"altText"  json:"altText"`
	Position    VideoPosition `bson:"position" json:"position"`
}

func (m *HeaderVideoModel) MediaURL() string       { return m.VideoURL }
func (m *HeaderVideoModel) SetMediaURL(url string) { m.VideoURL = url }

// HeroImageModel is a slide of the home hero carousel.
type HeroImageModel struct {
	ContentBase `bson:",inline"`
	ImageURL    string `bson:"imageUrl" json:"imageUrl"`
	AltText     string `bson:"altText"  json:"altText"`
	Order       int    `bson:"order"    json:"order"`
}

func (m *HeroImageModel) MediaURL() string       { return m.ImageURL }
func (m *HeroImageModel) SetMediaURL(url string) { m.ImageURL = url }

// PostType is the kind of media a latest post carries.
type PostType string

const (
	PostTypeImage   PostType = "image"
	PostTypeVideo   PostType = "video"
	PostTypeYouTube PostType = "youtube"
	PostTypeText    PostType = "text"
)

// Valid reports whether t is a known post type.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeImage, PostTypeVideo, PostTypeYouTube, PostTypeText:
		return true
	}
	return false
}

// LatestPostModel is an entry of the latest-posts feed.
type LatestPostModel struct {
	ContentBase `bson:",inline"`
	Title       string   `bson:"title"    json:"title"`
	Body        string   `bson:"body"     json:"body"`
	Type        PostType `bson:"type"     json:"type"`
	Media       string   `bson:"mediaUrl" json:"mediaUrl"`
}

func (m *LatestPostModel) MediaURL() string       { return m.Media }
func (m *LatestPostModel) SetMediaURL(url string) { m.Media = url }
