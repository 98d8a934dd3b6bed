package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/podracer/app/cfg"
	"github.com/lysyi3m/podracer/app/gpodder"
	"github.com/lysyi3m/podracer/app/podcast"
)

func NewHandler(catalog CatalogInterface, recommender RecommenderInterface,
	sessions *SessionStore, settings *cfg.Settings, version string) *Handler {
	return &Handler{
		catalog:     catalog,
		recommender: recommender,
		sessions:    sessions,
		settings:    settings,
		version:     version,
		now:         time.Now,
	}
}

func (h *Handler) Login(c *gin.Context) {
	h.clearSession(c)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login request."})
		return
	}

	if req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing password."})
		return
	}

	creds := gpodder.Credentials{Username: req.Username, Password: req.Password}
	if err := h.catalog.Authenticate(c.Request.Context(), creds); err != nil {
		if errors.Is(err, gpodder.ErrAuthenticationFailed) {
			slog.Info("Login rejected", "user", req.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login credentials."})
			return
		}
		slog.Error("Remote error", "operation", "authenticate", "user", req.Username, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "gpodder.net is unavailable, try again later."})
		return
	}

	session := h.sessions.Create(creds)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, session.ID, int(h.sessions.TTL().Seconds()), "/", "", false, true)

	slog.Info("User logged in", "user", req.Username)

	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Index lists the subscriptions and the episodes to listen to next
func (h *Handler) Index(c *gin.Context) {
	session := currentSession(c)
	ctx := c.Request.Context()

	subscriptions, err := h.catalog.Subscriptions(ctx, session.Credentials)
	if err != nil {
		h.remoteError(c, "get_subscriptions", err)
		return
	}

	upNext, err := h.recommender.UpNext(ctx, session.Credentials, h.now())
	if err != nil {
		h.remoteError(c, "up_next", err)
		return
	}

	display := make([]podcast.Episode, len(upNext))
	for i, ep := range upNext {
		display[i] = podcast.ForDisplay(ep)
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": subscriptions,
		"up_next":       display,
	})
}

// Search runs a simple search, lists a genre, or lists the most popular
// podcasts, depending on which query parameter is given.
func (h *Handler) Search(c *gin.Context) {
	session := currentSession(c)
	ctx := c.Request.Context()

	var (
		results []podcast.Podcast
		err     error
	)

	switch {
	case c.Query("genre") != "":
		results, err = h.catalog.TagPodcasts(ctx, session.Credentials, c.Query("genre"), h.settings.GenrePodcasts)
	case c.Query("query") != "":
		results, err = h.catalog.Search(ctx, session.Credentials, c.Query("query"))
	case c.Query("pop") != "":
		count, convErr := strconv.Atoi(c.Query("pop"))
		if convErr != nil || count <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pop must be a positive number"})
			return
		}
		results, err = h.catalog.Toplist(ctx, session.Credentials, count)
	default:
		results = []podcast.Podcast{}
	}

	if err != nil {
		h.remoteError(c, "search", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) Genres(c *gin.Context) {
	session := currentSession(c)

	tags, err := h.catalog.TopTags(c.Request.Context(), session.Credentials, h.settings.Genres)
	if err != nil {
		h.remoteError(c, "top_tags", err)
		return
	}

	genres := make([]genreLink, 0, len(tags))
	for _, tag := range tags {
		genres = append(genres, genreLink{
			Title: tag.Title,
			Tag:   tag.Tag,
			Link:  "/search?" + url.Values{"genre": {tag.Tag}}.Encode(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// Suggestions combines gpodder.net's own suggestions with podcasts similar
// to the user's subscriptions.
func (h *Handler) Suggestions(c *gin.Context) {
	session := currentSession(c)
	ctx := c.Request.Context()

	suggestions, err := h.catalog.Suggestions(ctx, session.Credentials, h.settings.Suggestions)
	if err != nil {
		h.remoteError(c, "get_suggestions", err)
		return
	}

	similar, err := h.recommender.Similar(ctx, session.Credentials)
	if err != nil {
		h.remoteError(c, "similar", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions":    suggestions,
		"ml_suggestions": similar,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp": h.now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sessions":  h.sessions.Count(),
	})
}

func (h *Handler) remoteError(c *gin.Context, operation string, err error) {
	session := currentSession(c)

	if errors.Is(err, gpodder.ErrAuthenticationFailed) {
		slog.Warn("Stored credentials rejected", "operation", operation, "user", session.Credentials.Username)
		h.clearSession(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
		return
	}

	slog.Error("Remote error", "operation", operation, "user", session.Credentials.Username, "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "gpodder.net is unavailable, try again later."})
}

func (h *Handler) clearSession(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		h.sessions.Delete(id)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

func currentSession(c *gin.Context) *Session {
	if value, ok := c.Get(sessionKey); ok {
		if session, ok := value.(*Session); ok {
			return session
		}
	}
	return &Session{}
}
