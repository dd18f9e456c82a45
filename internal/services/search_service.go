package services

import (
	"time"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchService turns a trip search filter into a paginated result set.
// Date plus an optional time-of-day bucket resolve to an absolute
// departure window before the query is built, so the repository only
// ever sees timestamps.
type SearchService struct {
	searchRepo *database.SearchRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(searchRepo *database.SearchRepository) *SearchService {
	return &SearchService{searchRepo: searchRepo}
}

// Search validates the filter, resolves it to repository parameters and
// returns one page of matches plus the total count across all pages.
func (s *SearchService) Search(filter *models.TripSearchFilter) (*models.SearchResult, error) {
	params, err := s.resolveParams(filter)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	total, err := s.searchRepo.Count(params)
	if err != nil {
		return nil, err
	}

	items := []models.TripSummary{}
	if total > 0 {
		offset := (page - 1) * limit
		items, err = s.searchRepo.Search(params, offset, limit)
		if err != nil {
			return nil, err
		}
	}

	totalPages := (total + limit - 1) / limit

	return &models.SearchResult{
		Items:      items,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func (s *SearchService) resolveParams(filter *models.TripSearchFilter) (database.SearchParams, error) {
	params := database.SearchParams{
		Origin:      filter.Origin,
		Destination: filter.Destination,
		BusType:     filter.BusType,
		OperatorID:  filter.OperatorID,
		MinPrice:    filter.MinPrice,
		MaxPrice:    filter.MaxPrice,
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return params, apperrors.NewInvalidInput("min_price must not exceed max_price")
	}

	// A non-positive passenger count constrains nothing and is ignored.
	if filter.Passengers != nil && *filter.Passengers > 0 {
		params.MinAvailable = filter.Passengers
	}

	if filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return params, apperrors.NewInvalidInput("date must be formatted as YYYY-MM-DD")
		}

		from := day
		to := day.Add(24 * time.Hour)
		if filter.TimeOfDay != "" {
			startHour, endHour, err := bucketWindow(filter.TimeOfDay)
			if err != nil {
				return params, err
			}
			from = day.Add(time.Duration(startHour) * time.Hour)
			to = day.Add(time.Duration(endHour) * time.Hour)
		}
		params.DepartFrom = &from
		params.DepartTo = &to
	}
	// A bucket without a date has no day to anchor to and is ignored.

	return params, nil
}

// bucketWindow maps a time-of-day bucket to [start, end) hours within a day.
func bucketWindow(bucket string) (int, int, error) {
	switch bucket {
	case models.BucketMorning:
		return 6, 12, nil
	case models.BucketAfternoon:
		return 12, 18, nil
	case models.BucketEvening:
		return 18, 21, nil
	case models.BucketNight:
		return 21, 24, nil
	default:
		return 0, 0, apperrors.NewInvalidInput("unknown departure_time bucket %q", bucket)
	}
}
