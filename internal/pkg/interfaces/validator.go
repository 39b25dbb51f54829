package interfaces

import "github.com/tippmixmentor/tippmix/internal/pkg/models"

// Validator interface for data validation
type Validator interface {
	// ValidateMatch validates match data, markets included
	ValidateMatch(match *models.Match) error

	// ValidateMarket validates a single market
	ValidateMarket(market *models.Market) error
}

// DataSanitizer interface for data sanitization
type DataSanitizer interface {
	// SanitizeMatch sanitizes match data, markets included
	SanitizeMatch(match *models.Match) error

	// SanitizeMarket sanitizes a single market
	SanitizeMarket(market *models.Market) error
}
