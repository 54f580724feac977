package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tasky/internal/domain/entity"
	"github.com/oksasatya/tasky/pkg/apperr"
)

// UserIndexer mirrors user profiles into Elasticsearch for the admin search
// view. Indexing is best-effort and never fails the triggering request.
type UserIndexer struct {
	ES     *elasticsearch.Client
	IndexName string
	Logger *logrus.Logger
}

func NewUserIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndexer {
	return &UserIndexer{ES: es, IndexName: index, Logger: logger}
}

// UserDoc is the indexed shape of a user profile.
type UserDoc struct {
	ID        string `json:"id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (ix *UserIndexer) Index(ctx context.Context, u *entity.User) {
	if ix == nil || ix.ES == nil || ix.IndexName == "" {
		return
	}
	doc := UserDoc{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: ix.IndexName, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		if ix.Logger != nil {
			ix.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && ix.Logger != nil {
		ix.Logger.WithField("status", res.StatusCode).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (ix *UserIndexer) Remove(ctx context.Context, userID string) {
	if ix == nil || ix.ES == nil || ix.IndexName == "" {
		return
	}
	req := esapi.DeleteRequest{Index: ix.IndexName, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, ix.ES)
	if err != nil {
		if ix.Logger != nil {
			ix.Logger.WithError(err).WithField("user_id", userID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a fuzzy match over fullname and email.
func (ix *UserIndexer) Search(ctx context.Context, query string) ([]UserDoc, error) {
	if ix == nil || ix.ES == nil || ix.IndexName == "" {
		return nil, apperr.E(apperr.Unexpected, "search is not configured")
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"fullname^2", "email"},
				"fuzziness": "AUTO",
			},
		},
		"size": 50,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := ix.ES.Search(
		ix.ES.Search.WithContext(c),
		ix.ES.Search.WithIndex(ix.IndexName),
		ix.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "search failed", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, apperr.E(apperr.Unexpected, "search failed")
	}

	var out struct {
		Hits struct {
			Hits []struct {
				Source UserDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, "search decode failed", err)
	}
	docs := make([]UserDoc, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		docs = append(docs, h.Source)
	}
	return docs, nil
}
