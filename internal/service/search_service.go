package service

import (
	"context"

	"ai-digest-be/internal/dto"
	"ai-digest-be/internal/pkg/logger"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/pkg/rag/search"
)

type ISearchService interface {
	Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	uowFactory unitofwork.RepositoryFactory
	merger     search.Executor
	threshold  float64
	logger     logger.ILogger
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	merger search.Executor,
	threshold float64,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		uowFactory: uowFactory,
		merger:     merger,
		threshold:  threshold,
		logger:     log,
	}
}

func (s *searchService) Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error) {
	mode, err := search.ParseMode(request.Mode)
	if err != nil {
		return nil, err
	}

	params := search.Params{
		Query:     request.Query,
		Mode:      mode,
		Limit:     request.Limit,
		Threshold: s.threshold,
	}
	if f := request.Filters; f != nil {
		params.Filters = &search.Filters{
			ContentType: f.ContentType,
			Platform:    f.Platform,
			DateFrom:    f.DateFrom,
			DateTo:      f.DateTo,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	results, err := s.merger.Execute(ctx, uow, params)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SearchResultResponse, 0, len(results))
	for _, r := range results {
		item := r.Item

		insights := make([]string, 0, len(item.Insights))
		for _, snippet := range item.Insights {
			insights = append(insights, snippet.Text)
		}

		resp := &dto.SearchResultResponse{
			Id:          item.Id,
			Title:       item.Title,
			URL:         item.URL,
			Summary:     item.Summary,
			Insights:    insights,
			ContentType: item.ContentType,
			Platform:    item.Platform,
			Pool:        string(r.Pool),
			Source:      r.Source,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}

		// Browse-fallback results carry no score.
		if r.Source != "" {
			similarity := r.Similarity
			resp.Similarity = &similarity
		}

		response = append(response, resp)
	}

	return &dto.SearchResponse{
		Results: response,
		Count:   len(response),
	}, nil
}
