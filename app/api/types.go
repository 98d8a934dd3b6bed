package api

import (
	"context"
	"time"

	"github.com/lysyi3m/podracer/app/cfg"
	"github.com/lysyi3m/podracer/app/gpodder"
	"github.com/lysyi3m/podracer/app/podcast"
	"github.com/lysyi3m/podracer/app/recommend"
)

type CatalogInterface interface {
	Authenticate(ctx context.Context, creds gpodder.Credentials) error
	Subscriptions(ctx context.Context, creds gpodder.Credentials) ([]podcast.Podcast, error)
	Search(ctx context.Context, creds gpodder.Credentials, term string) ([]podcast.Podcast, error)
	TopTags(ctx context.Context, creds gpodder.Credentials, count int) ([]podcast.Tag, error)
	TagPodcasts(ctx context.Context, creds gpodder.Credentials, tag string, count int) ([]podcast.Podcast, error)
	Toplist(ctx context.Context, creds gpodder.Credentials, count int) ([]podcast.Podcast, error)
	Suggestions(ctx context.Context, creds gpodder.Credentials, count int) ([]podcast.Podcast, error)
}

var _ CatalogInterface = (*gpodder.Client)(nil)

type RecommenderInterface interface {
	UpNext(ctx context.Context, creds gpodder.Credentials, now time.Time) ([]podcast.Episode, error)
	Similar(ctx context.Context, creds gpodder.Credentials) ([]podcast.Podcast, error)
}

var _ RecommenderInterface = (*recommend.Service)(nil)

type Handler struct {
	catalog     CatalogInterface
	recommender RecommenderInterface
	sessions    *SessionStore
	settings    *cfg.Settings
	version     string
	now         func() time.Time
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type genreLink struct {
	Title string `json:"title"`
	Tag   string `json:"tag"`
	Link  string `json:"link"`
}
