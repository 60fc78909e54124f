package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ADeane6/plex-movie-rec/internal/logger"
)

// MediaClient is a playable Plex client (TV, desktop app, ...).
type MediaClient struct {
	Name              string `json:"name"`
	Product           string `json:"product"`
	MachineIdentifier string `json:"-"`
}

// Client talks to a Plex Media Server over its HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	machineID string
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Plex API response envelopes. Plex answers JSON when asked via the
// Accept header; every payload is wrapped in a MediaContainer.

type identityResponse struct {
	MediaContainer struct {
		MachineIdentifier string `json:"machineIdentifier"`
		Version           string `json:"version"`
	} `json:"MediaContainer"`
}

type sectionsResponse struct {
	MediaContainer struct {
		Directory []struct {
			Key   string `json:"key"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"Directory"`
	} `json:"MediaContainer"`
}

type tag struct {
	Tag string `json:"tag"`
}

type sectionContentResponse struct {
	MediaContainer struct {
		Metadata []struct {
			Key      string  `json:"key"`
			Title    string  `json:"title"`
			Year     int     `json:"year"`
			Summary  string  `json:"summary"`
			Rating   float64 `json:"rating"`
			Duration int     `json:"duration"`
			Genre    []tag   `json:"Genre"`
			Director []tag   `json:"Director"`
			Role     []tag   `json:"Role"`
		} `json:"Metadata"`
	} `json:"MediaContainer"`
}

type clientsResponse struct {
	MediaContainer struct {
		Server []struct {
			Name              string `json:"name"`
			Product           string `json:"product"`
			MachineIdentifier string `json:"machineIdentifier"`
		} `json:"Server"`
	} `json:"MediaContainer"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, header http.Header, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("plex: request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("plex: %s returned status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("plex: decoding %s response: %w", path, err)
	}
	return nil
}

// Connect verifies the server is reachable and records its machine
// identifier, which playback commands need.
func (c *Client) Connect(ctx context.Context) error {
	var identity identityResponse
	if err := c.get(ctx, "/identity", nil, nil, &identity); err != nil {
		return err
	}
	c.machineID = identity.MediaContainer.MachineIdentifier
	logger.Info("connected to plex server", map[string]any{
		"version": identity.MediaContainer.Version,
	})
	return nil
}

// Movies extracts the named movie library section.
func (c *Client) Movies(ctx context.Context, libraryName string) ([]Movie, error) {
	var sections sectionsResponse
	if err := c.get(ctx, "/library/sections", nil, nil, &sections); err != nil {
		return nil, err
	}

	sectionKey := ""
	for _, dir := range sections.MediaContainer.Directory {
		if dir.Title == libraryName && dir.Type == "movie" {
			sectionKey = dir.Key
			break
		}
	}
	if sectionKey == "" {
		return nil, fmt.Errorf("plex: movie library %q not found", libraryName)
	}

	var content sectionContentResponse
	path := fmt.Sprintf("/library/sections/%s/all", sectionKey)
	if err := c.get(ctx, path, nil, nil, &content); err != nil {
		return nil, err
	}

	movies := make([]Movie, 0, len(content.MediaContainer.Metadata))
	for _, md := range content.MediaContainer.Metadata {
		actors := tagsToStrings(md.Role)
		if len(actors) > 5 {
			actors = actors[:5]
		}
		movies = append(movies, Movie{
			Title:     md.Title,
			Year:      md.Year,
			Summary:   md.Summary,
			Genres:    tagsToStrings(md.Genre),
			Directors: tagsToStrings(md.Director),
			Actors:    actors,
			Key:       md.Key,
			Rating:    md.Rating,
			Duration:  md.Duration,
		})
	}
	return movies, nil
}

// Clients lists the controllable clients currently known to the server.
func (c *Client) Clients(ctx context.Context) ([]MediaClient, error) {
	var resp clientsResponse
	if err := c.get(ctx, "/clients", nil, nil, &resp); err != nil {
		return nil, err
	}

	clients := make([]MediaClient, 0, len(resp.MediaContainer.Server))
	for _, s := range resp.MediaContainer.Server {
		clients = append(clients, MediaClient{
			Name:              s.Name,
			Product:           s.Product,
			MachineIdentifier: s.MachineIdentifier,
		})
	}
	return clients, nil
}

// Play starts playback of the item identified by movieKey on the named
// client, proxying the command through the server. The returned string
// is a human-readable status; playback failures are encoded in it
// rather than raised, matching how callers surface the result to users.
func (c *Client) Play(ctx context.Context, movieKey, clientName string) (string, error) {
	clients, err := c.Clients(ctx)
	if err != nil {
		return "", err
	}

	var target *MediaClient
	for i := range clients {
		if clients[i].Name == clientName {
			target = &clients[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("plex: client %q not found", clientName)
	}

	var item sectionContentResponse
	if err := c.get(ctx, movieKey, nil, nil, &item); err != nil {
		return "", fmt.Errorf("plex: fetching item %s: %w", movieKey, err)
	}
	if len(item.MediaContainer.Metadata) == 0 {
		return "", fmt.Errorf("plex: no item found for key %s", movieKey)
	}
	title := item.MediaContainer.Metadata[0].Title

	query := url.Values{}
	query.Set("key", movieKey)
	query.Set("offset", "0")
	query.Set("machineIdentifier", c.machineID)
	query.Set("commandID", "1")

	header := http.Header{}
	header.Set("X-Plex-Target-Client-Identifier", target.MachineIdentifier)

	if err := c.get(ctx, "/player/playback/playMedia", query, header, nil); err != nil {
		return fmt.Sprintf("Error playing movie: %v", err), nil
	}

	return fmt.Sprintf("Now playing %s on %s", title, clientName), nil
}

func tagsToStrings(tags []tag) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Tag)
	}
	return out
}
