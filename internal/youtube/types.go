package youtube

// Thumbnail is a single rendition of an image
type Thumbnail struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Thumbnails holds the renditions the API returns by default
type Thumbnails struct {
	Default *Thumbnail `json:"default,omitempty" yaml:"default,omitempty"`
	Medium  *Thumbnail `json:"medium,omitempty" yaml:"medium,omitempty"`
	High    *Thumbnail `json:"high,omitempty" yaml:"high,omitempty"`
}

// Best returns the URL of the medium rendition, falling back to the others
func (t Thumbnails) Best() string {
	for _, th := range []*Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}

type Localized struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// ResourceID points at the video, channel or playlist an item refers to
type ResourceID struct {
	Kind       string `json:"kind" yaml:"kind"`
	VideoID    string `json:"videoId,omitempty" yaml:"videoId,omitempty"`
	ChannelID  string `json:"channelId,omitempty" yaml:"channelId,omitempty"`
	PlaylistID string `json:"playlistId,omitempty" yaml:"playlistId,omitempty"`
}

type Channel struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		Title       string     `json:"title" yaml:"title"`
		Description string     `json:"description" yaml:"description"`
		CustomURL   string     `json:"customUrl,omitempty" yaml:"customUrl,omitempty"`
		PublishedAt string     `json:"publishedAt" yaml:"publishedAt"`
		Thumbnails  Thumbnails `json:"thumbnails" yaml:"thumbnails"`
		Country     string     `json:"country,omitempty" yaml:"country,omitempty"`
		Localized   *Localized `json:"localized,omitempty" yaml:"localized,omitempty"`
	} `json:"snippet" yaml:"snippet"`
	Statistics struct {
		ViewCount             string `json:"viewCount" yaml:"viewCount"`
		SubscriberCount       string `json:"subscriberCount" yaml:"subscriberCount"`
		HiddenSubscriberCount bool   `json:"hiddenSubscriberCount" yaml:"hiddenSubscriberCount"`
		VideoCount            string `json:"videoCount" yaml:"videoCount"`
	} `json:"statistics" yaml:"statistics"`
	BrandingSettings *struct {
		Channel struct {
			Title               string `json:"title" yaml:"title"`
			Description         string `json:"description" yaml:"description"`
			Keywords            string `json:"keywords" yaml:"keywords"`
			UnsubscribedTrailer string `json:"unsubscribedTrailer,omitempty" yaml:"unsubscribedTrailer,omitempty"`
			Country             string `json:"country" yaml:"country"`
		} `json:"channel" yaml:"channel"`
		Image struct {
			BannerExternalURL string `json:"bannerExternalUrl" yaml:"bannerExternalUrl"`
		} `json:"image" yaml:"image"`
	} `json:"brandingSettings,omitempty" yaml:"brandingSettings,omitempty"`
}

type ChannelSection struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		Type      string `json:"type" yaml:"type"`
		ChannelID string `json:"channelId" yaml:"channelId"`
		Title     string `json:"title" yaml:"title"`
		Position  int    `json:"position" yaml:"position"`
	} `json:"snippet" yaml:"snippet"`
	ContentDetails struct {
		Playlists []string `json:"playlists,omitempty" yaml:"playlists,omitempty"`
		Channels  []string `json:"channels,omitempty" yaml:"channels,omitempty"`
	} `json:"contentDetails" yaml:"contentDetails"`
	Targeting *struct {
		Countries []string `json:"countries,omitempty" yaml:"countries,omitempty"`
		Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	} `json:"targeting,omitempty" yaml:"targeting,omitempty"`
}

type Playlist struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		PublishedAt  string     `json:"publishedAt" yaml:"publishedAt"`
		ChannelID    string     `json:"channelId" yaml:"channelId"`
		Title        string     `json:"title" yaml:"title"`
		Description  string     `json:"description" yaml:"description"`
		Thumbnails   Thumbnails `json:"thumbnails" yaml:"thumbnails"`
		ChannelTitle string     `json:"channelTitle" yaml:"channelTitle"`
		Localized    *Localized `json:"localized,omitempty" yaml:"localized,omitempty"`
	} `json:"snippet" yaml:"snippet"`
	ContentDetails struct {
		ItemCount int `json:"itemCount" yaml:"itemCount"`
	} `json:"contentDetails" yaml:"contentDetails"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus" yaml:"privacyStatus"`
	} `json:"status" yaml:"status"`
}

type PlaylistItem struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		PublishedAt  string     `json:"publishedAt" yaml:"publishedAt"`
		ChannelID    string     `json:"channelId" yaml:"channelId"`
		Title        string     `json:"title" yaml:"title"`
		Description  string     `json:"description" yaml:"description"`
		Thumbnails   Thumbnails `json:"thumbnails" yaml:"thumbnails"`
		ChannelTitle string     `json:"channelTitle" yaml:"channelTitle"`
		PlaylistID   string     `json:"playlistId" yaml:"playlistId"`
		Position     int        `json:"position" yaml:"position"`
		ResourceID   ResourceID `json:"resourceId" yaml:"resourceId"`
	} `json:"snippet" yaml:"snippet"`
	ContentDetails struct {
		VideoID          string `json:"videoId" yaml:"videoId"`
		StartAt          string `json:"startAt,omitempty" yaml:"startAt,omitempty"`
		EndAt            string `json:"endAt,omitempty" yaml:"endAt,omitempty"`
		Note             string `json:"note,omitempty" yaml:"note,omitempty"`
		VideoPublishedAt string `json:"videoPublishedAt" yaml:"videoPublishedAt"`
	} `json:"contentDetails" yaml:"contentDetails"`
}

type resourceRef struct {
	ResourceID ResourceID `json:"resourceId" yaml:"resourceId"`
}

type Activity struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		PublishedAt  string     `json:"publishedAt" yaml:"publishedAt"`
		ChannelID    string     `json:"channelId" yaml:"channelId"`
		Title        string     `json:"title" yaml:"title"`
		Description  string     `json:"description" yaml:"description"`
		Thumbnails   Thumbnails `json:"thumbnails" yaml:"thumbnails"`
		ChannelTitle string     `json:"channelTitle" yaml:"channelTitle"`
		Type         string     `json:"type" yaml:"type"`
	} `json:"snippet" yaml:"snippet"`
	ContentDetails struct {
		Upload *struct {
			VideoID string `json:"videoId" yaml:"videoId"`
		} `json:"upload,omitempty" yaml:"upload,omitempty"`
		Like         *resourceRef `json:"like,omitempty" yaml:"like,omitempty"`
		Subscription *resourceRef `json:"subscription,omitempty" yaml:"subscription,omitempty"`
		Bulletin     *resourceRef `json:"bulletin,omitempty" yaml:"bulletin,omitempty"`
		Comment      *resourceRef `json:"comment,omitempty" yaml:"comment,omitempty"`
	} `json:"contentDetails" yaml:"contentDetails"`
}

// VideoID returns the video the activity is about, if any
func (a *Activity) VideoID() string {
	cd := a.ContentDetails
	switch {
	case cd.Upload != nil:
		return cd.Upload.VideoID
	case cd.Like != nil:
		return cd.Like.ResourceID.VideoID
	case cd.Comment != nil:
		return cd.Comment.ResourceID.VideoID
	}
	return ""
}

type Subscription struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		PublishedAt  string     `json:"publishedAt" yaml:"publishedAt"`
		ChannelTitle string     `json:"channelTitle" yaml:"channelTitle"`
		Title        string     `json:"title" yaml:"title"`
		Description  string     `json:"description" yaml:"description"`
		ResourceID   ResourceID `json:"resourceId" yaml:"resourceId"`
		Thumbnails   Thumbnails `json:"thumbnails" yaml:"thumbnails"`
	} `json:"snippet" yaml:"snippet"`
	ContentDetails struct {
		TotalItemCount int    `json:"totalItemCount" yaml:"totalItemCount"`
		NewItemCount   int    `json:"newItemCount" yaml:"newItemCount"`
		ActivityType   string `json:"activityType" yaml:"activityType"`
	} `json:"contentDetails" yaml:"contentDetails"`
}

type Language struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		HL   string `json:"hl" yaml:"hl"`
		Name string `json:"name" yaml:"name"`
	} `json:"snippet" yaml:"snippet"`
}

type Region struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		GL   string `json:"gl" yaml:"gl"`
		Name string `json:"name" yaml:"name"`
	} `json:"snippet" yaml:"snippet"`
}

type GuideCategory struct {
	ID      string `json:"id" yaml:"id"`
	Snippet struct {
		Title     string `json:"title" yaml:"title"`
		ChannelID string `json:"channelId" yaml:"channelId"`
	} `json:"snippet" yaml:"snippet"`
}

// Video is a search or related result merged with its duration and views
type Video struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Thumbnail    string `json:"thumbnail" yaml:"thumbnail"`
	ChannelTitle string `json:"channelTitle" yaml:"channelTitle"`
	PublishedAt  string `json:"publishedAt" yaml:"publishedAt"`
	Duration     string `json:"duration,omitempty" yaml:"duration,omitempty"`
	ViewCount    string `json:"viewCount,omitempty" yaml:"viewCount,omitempty"`
}

// Comment is a flattened top-level comment thread
type Comment struct {
	ID                    string `json:"id" yaml:"id"`
	AuthorDisplayName     string `json:"authorDisplayName" yaml:"authorDisplayName"`
	AuthorProfileImageURL string `json:"authorProfileImageUrl" yaml:"authorProfileImageUrl"`
	TextDisplay           string `json:"textDisplay" yaml:"textDisplay"`
	LikeCount             int64  `json:"likeCount" yaml:"likeCount"`
	PublishedAt           string `json:"publishedAt" yaml:"publishedAt"`
	TotalReplyCount       int64  `json:"totalReplyCount" yaml:"totalReplyCount"`
}

// SearchParams filters a video search
type SearchParams struct {
	Query      string
	MaxResults int
	Duration   string // short, medium or long
	Order      string
}

// wire shapes used only for decoding

type listResponse[T any] struct {
	Items []T `json:"items"`
}

type searchResult struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		Thumbnails   Thumbnails `json:"thumbnails"`
		ChannelTitle string     `json:"channelTitle"`
		PublishedAt  string     `json:"publishedAt"`
	} `json:"snippet"`
}

type videoDetails struct {
	ID             string `json:"id"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount string `json:"viewCount"`
	} `json:"statistics"`
}

type commentThread struct {
	Snippet struct {
		TopLevelComment struct {
			ID      string `json:"id"`
			Snippet struct {
				AuthorDisplayName     string `json:"authorDisplayName"`
				AuthorProfileImageURL string `json:"authorProfileImageUrl"`
				TextDisplay           string `json:"textDisplay"`
				LikeCount             int64  `json:"likeCount"`
				PublishedAt           string `json:"publishedAt"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
		TotalReplyCount int64 `json:"totalReplyCount"`
	} `json:"snippet"`
}
