package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"albowatch-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	defaultGistBaseUrl  = "https://api.github.com"
	defaultGistFilename = "processed_ids.json"
)

// GistStore keeps the snapshot as one json file inside a github gist.
// reads fetch the whole gist, writes PATCH the whole file content.
type GistStore struct {
	http     *resty.Client
	baseUrl  string
	id       string
	filename string
}

type GistOptions struct {
	Id    string
	Token string
	// file inside the gist, defaults to processed_ids.json
	Filename string
	// overrides https://api.github.com, used in tests
	BaseUrl string
}

func NewGistStore(opts GistOptions) *GistStore {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	client.SetHeader("Authorization", "token "+opts.Token)
	client.SetHeader("Accept", "application/vnd.github.v3+json")
	telemetry.InstrumentResty(client, "store/gist")

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultGistBaseUrl
	}
	filename := opts.Filename
	if filename == "" {
		filename = defaultGistFilename
	}
	return &GistStore{
		http:     client,
		baseUrl:  baseUrl,
		id:       opts.Id,
		filename: filename,
	}
}

type gistFile struct {
	Content string `json:"content"`
}

type gistBody struct {
	Files map[string]gistFile `json:"files"`
}

func (g *GistStore) Load(ctx context.Context) (Snapshot, error) {
	res, err := g.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/gists/%s", g.baseUrl, g.id))
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("unexpected status %d reading gist %s", res.StatusCode(), g.id)
	}

	var body gistBody
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		return nil, err
	}

	// a gist without the snapshot file yet is just an empty snapshot
	file, ok := body.Files[g.filename]
	if !ok || file.Content == "" {
		return Snapshot{}, nil
	}

	snap := Snapshot{}
	err = json.Unmarshal([]byte(file.Content), &snap)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", g.filename, err)
	}
	return snap, nil
}

func (g *GistStore) Save(ctx context.Context, snap Snapshot) error {
	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	res, err := g.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(gistBody{
			Files: map[string]gistFile{
				g.filename: {Content: string(content)},
			},
		}).
		Patch(fmt.Sprintf("%s/gists/%s", g.baseUrl, g.id))
	if err != nil {
		return err
	}
	if !res.IsSuccess() {
		return fmt.Errorf("unexpected status %d updating gist %s", res.StatusCode(), g.id)
	}
	return nil
}
