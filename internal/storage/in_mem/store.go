package in_mem

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// Store keeps sources, articles and preferences in process memory.
// The URL index plays the role of the unique constraint.
type Store struct {
	mu         sync.RWMutex
	sources    map[uuid.UUID]domain.Source
	sourceKeys map[string]uuid.UUID
	articles   map[uuid.UUID]domain.Article
	urls       map[string]uuid.UUID
	prefs      map[string]domain.Preferences
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		sources:    make(map[uuid.UUID]domain.Source),
		sourceKeys: make(map[string]uuid.UUID),
		articles:   make(map[uuid.UUID]domain.Article),
		urls:       make(map[string]uuid.UUID),
		prefs:      make(map[string]domain.Preferences),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Healthy(_ context.Context) bool {
	return true
}

func (s *Store) FindSourceByKey(_ context.Context, key string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.sourceKeys[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	src := s.sources[id]
	return &src, nil
}

func (s *Store) FindSourceByID(_ context.Context, id uuid.UUID) (*domain.SourceWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.sources[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &domain.SourceWithCount{Source: src, ArticlesCount: s.countArticles(id)}, nil
}

func (s *Store) ListSources(_ context.Context) ([]domain.SourceWithCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SourceWithCount, 0, len(s.sources))
	for id, src := range s.sources {
		out = append(out, domain.SourceWithCount{Source: src, ArticlesCount: s.countArticles(id)})
	}
	slices.SortFunc(out, func(a, b domain.SourceWithCount) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Store) CreateSource(_ context.Context, src domain.Source) (*domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sourceKeys[src.Key]; ok {
		return nil, fmt.Errorf("source %q already exists", src.Key)
	}
	created := s.insertSource(src)
	return &created, nil
}

func (s *Store) GetOrCreateSource(_ context.Context, src domain.Source) (*domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.sourceKeys[src.Key]; ok {
		existing := s.sources[id]
		return &existing, nil
	}
	created := s.insertSource(src)
	return &created, nil
}

func (s *Store) UpsertSource(_ context.Context, src domain.Source) (*domain.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.sourceKeys[src.Key]
	if !ok {
		created := s.insertSource(src)
		return &created, nil
	}

	existing := s.sources[id]
	existing.Name = src.Name
	existing.BaseURL = src.BaseURL
	existing.Meta = src.Meta
	existing.UpdatedAt = s.now()
	s.sources[id] = existing
	return &existing, nil
}

func (s *Store) insertSource(src domain.Source) domain.Source {
	now := s.now()
	src.ID = uuid.New()
	src.CreatedAt = now
	src.UpdatedAt = now
	s.sources[src.ID] = src
	s.sourceKeys[src.Key] = src.ID
	return src
}

func (s *Store) UpsertArticleByURL(_ context.Context, in domain.ArticleUpsert) (*domain.Article, error) {
	if in.URL == "" {
		return nil, fmt.Errorf("article url is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sources[in.SourceID]; !ok {
		return nil, fmt.Errorf("source %s does not exist", in.SourceID)
	}

	now := s.now()
	article := domain.Article{
		ID:        uuid.New(),
		IsActive:  true,
		CreatedAt: now,
	}
	if id, ok := s.urls[in.URL]; ok {
		existing := s.articles[id]
		article.ID = existing.ID
		article.IsActive = existing.IsActive
		article.CreatedAt = existing.CreatedAt
	}

	article.SourceID = in.SourceID
	article.SourceArticleID = in.SourceArticleID
	article.Title = in.Title
	article.Description = in.Description
	article.Content = in.Content
	article.URL = in.URL
	article.URLToImage = in.URLToImage
	article.PublishedAt = in.PublishedAt
	article.AuthorName = in.AuthorName
	article.Category = in.Category
	article.Raw = in.Raw
	article.UpdatedAt = now

	s.articles[article.ID] = article
	s.urls[article.URL] = article.ID

	return &article, nil
}

// SetActive toggles the soft-enable flag of an article.
func (s *Store) SetActive(id uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.articles[id]; ok {
		a.IsActive = active
		s.articles[id] = a
	}
}

func (s *Store) QueryArticles(_ context.Context, filter domain.ArticleFilter) (domain.ArticlePage, error) {
	filter.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.collect(func(a domain.Article, src domain.Source) bool {
		return matchesFilter(a, src, filter)
	})
	sortByPublished(matched, filter.Sort)

	return paginate(matched, filter.Page, filter.PerPage), nil
}

func (s *Store) FindArticleByID(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok || !a.IsActive {
		return nil, storage.ErrNotFound
	}
	src := s.sources[a.SourceID]
	a.Source = &src
	return &a, nil
}

func (s *Store) Categories(_ context.Context) ([]string, error) {
	return s.distinct(func(a domain.Article) *string { return a.Category }), nil
}

func (s *Store) Authors(_ context.Context) ([]string, error) {
	return s.distinct(func(a domain.Article) *string { return a.AuthorName }), nil
}

func (s *Store) Personalized(_ context.Context, prefs domain.Preferences, page, perPage int) (domain.ArticlePage, error) {
	filter := domain.ArticleFilter{Page: page, PerPage: perPage, Sort: domain.SortDesc}
	filter.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.collect(func(a domain.Article, src domain.Source) bool {
		return matchesPreferences(a, src, prefs)
	})
	sortByPublished(matched, domain.SortDesc)

	return paginate(matched, filter.Page, filter.PerPage), nil
}

func (s *Store) GetPreferences(_ context.Context, userID string) (*domain.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) SavePreferences(_ context.Context, userID string, prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[userID] = domain.Preferences{
		Sources:    slices.Clone(prefs.Sources),
		Categories: slices.Clone(prefs.Categories),
		Authors:    slices.Clone(prefs.Authors),
	}
	return nil
}

func (s *Store) DeletePreferences(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.prefs, userID)
	return nil
}

func (s *Store) countArticles(sourceID uuid.UUID) int64 {
	var n int64
	for _, a := range s.articles {
		if a.SourceID == sourceID && a.IsActive {
			n++
		}
	}
	return n
}

func (s *Store) collect(match func(domain.Article, domain.Source) bool) []domain.Article {
	var out []domain.Article
	for _, a := range s.articles {
		if !a.IsActive {
			continue
		}
		src := s.sources[a.SourceID]
		if !match(a, src) {
			continue
		}
		a.Source = &src
		out = append(out, a)
	}
	return out
}

func (s *Store) distinct(field func(domain.Article) *string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range s.articles {
		v := field(a)
		if !a.IsActive || v == nil || *v == "" {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		out = append(out, *v)
	}
	slices.Sort(out)
	return out
}

func matchesFilter(a domain.Article, src domain.Source, f domain.ArticleFilter) bool {
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		if !containsFold(&a.Title, term) && !containsFold(a.Description, term) && !containsFold(a.Content, term) {
			return false
		}
	}
	if f.From != nil && (a.PublishedAt == nil || a.PublishedAt.Before(*f.From)) {
		return false
	}
	if f.To != nil && (a.PublishedAt == nil || a.PublishedAt.After(*f.To)) {
		return false
	}
	if f.Category != "" && (a.Category == nil || *a.Category != f.Category) {
		return false
	}
	if len(f.SourceKeys) > 0 && !slices.Contains(f.SourceKeys, src.Key) {
		return false
	}
	if f.Author != "" && !containsFold(a.AuthorName, strings.ToLower(f.Author)) {
		return false
	}
	return true
}

func matchesPreferences(a domain.Article, src domain.Source, p domain.Preferences) bool {
	if len(p.Sources) > 0 && !slices.Contains(p.Sources, src.Key) && !slices.Contains(p.Sources, src.Name) {
		return false
	}
	if len(p.Categories) > 0 && (a.Category == nil || !slices.Contains(p.Categories, *a.Category)) {
		return false
	}
	if len(p.Authors) > 0 {
		return slices.ContainsFunc(p.Authors, func(author string) bool {
			return containsFold(a.AuthorName, strings.ToLower(author))
		})
	}
	return true
}

func containsFold(v *string, lowerTerm string) bool {
	return v != nil && strings.Contains(strings.ToLower(*v), lowerTerm)
}

// sortByPublished orders by published_at with undated articles last.
func sortByPublished(articles []domain.Article, order domain.SortOrder) {
	slices.SortStableFunc(articles, func(a, b domain.Article) int {
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
			return cmp.Compare(a.URL, b.URL)
		case a.PublishedAt == nil:
			return 1
		case b.PublishedAt == nil:
			return -1
		}
		c := a.PublishedAt.Compare(*b.PublishedAt)
		if order == domain.SortDesc {
			c = -c
		}
		if c == 0 {
			return cmp.Compare(a.URL, b.URL)
		}
		return c
	})
}

func paginate(articles []domain.Article, page, perPage int) domain.ArticlePage {
	total := len(articles)
	start := max(0, min((page-1)*perPage, total))
	end := min(start+perPage, total)

	items := make([]domain.Article, end-start)
	copy(items, articles[start:end])

	return domain.ArticlePage{Items: items, Total: int64(total)}
}
