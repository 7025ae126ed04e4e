package es

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

func (s *Store) EnsureIndices(ctx context.Context) error {
	if err := s.ensureIndex(ctx, s.articlesIndex, articleMappings()); err != nil {
		return err
	}
	return s.ensureIndex(ctx, s.sourcesIndex, sourceMappings())
}

func (s *Store) ensureIndex(ctx context.Context, name string, mappings types.TypeMapping) error {
	exists, err := s.client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index %s exists: %w", name, err)
	}

	if exists {
		slog.Info("Index already exists", "index", name)
		return nil
	}

	settings := types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"news_analyzer": types.StandardAnalyzer{
					Stopwords: []string{"_english_"},
				},
			},
		},
	}

	createRes, err := s.client.Indices.Create(name).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		if hasStatus(err, 400) {
			// created concurrently by another instance
			slog.Info("Index already exists", "index", name)
			return nil
		}
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("creation of index %s was not acknowledged", name)
	}

	slog.Info("Index created successfully", "index", name)
	return nil
}

func articleMappings() types.TypeMapping {
	raw := types.NewObjectProperty()
	disabled := false
	raw.Enabled = &disabled

	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":                types.NewKeywordProperty(),
			"source_id":         types.NewKeywordProperty(),
			"source_key":        types.NewKeywordProperty(),
			"source_name":       textWithKeyword(""),
			"source_article_id": types.NewKeywordProperty(),
			"title":             textWithKeyword("news_analyzer"),
			"description":       textProperty("news_analyzer"),
			"content":           textProperty("news_analyzer"),
			"url":               types.NewKeywordProperty(),
			"url_to_image":      types.NewKeywordProperty(),
			"published_at":      types.NewDateProperty(),
			"author_name":       textWithKeyword(""),
			"category":          types.NewKeywordProperty(),
			"raw":               raw,
			"is_active":         types.NewBooleanProperty(),
			"created_at":        types.NewDateProperty(),
			"updated_at":        types.NewDateProperty(),
		},
	}
}

func sourceMappings() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"key":        types.NewKeywordProperty(),
			"name":       textWithKeyword(""),
			"base_url":   types.NewKeywordProperty(),
			"created_at": types.NewDateProperty(),
			"updated_at": types.NewDateProperty(),
		},
	}
}

func textProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func textWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	ignoreAbove := 256
	keyword := types.NewKeywordProperty()
	keyword.IgnoreAbove = &ignoreAbove
	textProp.Fields = map[string]types.Property{
		"keyword": keyword,
	}
	return textProp
}
