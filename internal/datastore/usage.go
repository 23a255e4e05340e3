// usage.go: AI usage accounting
package datastore

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planboard/planboard/internal/errors"
)

// AddAIUsage accumulates provider usage into the daily total and the
// per-operation detail rows, upserting by day.
func (ds *DataStore) AddAIUsage(date, operation string, inputTokens, outputTokens int64, cost float64) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		var usage AIUsage
		err := tx.Where("date = ?", date).First(&usage).Error
		switch {
		case err == nil:
			usage.RequestCount++
			usage.InputTokens += inputTokens
			usage.OutputTokens += outputTokens
			usage.EstimatedCost += cost
			if err := tx.Save(&usage).Error; err != nil {
				return fmt.Errorf("updating daily AI usage: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			usage = AIUsage{
				Date:          date,
				RequestCount:  1,
				InputTokens:   inputTokens,
				OutputTokens:  outputTokens,
				EstimatedCost: cost,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return fmt.Errorf("creating daily AI usage: %w", err)
			}
		default:
			return fmt.Errorf("looking up daily AI usage: %w", err)
		}

		detail := AIUsageDetail{
			Date:          date,
			Operation:     operation,
			RequestCount:  1,
			InputTokens:   inputTokens,
			OutputTokens:  outputTokens,
			EstimatedCost: cost,
		}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("creating AI usage detail: %w", err)
		}
		return nil
	})
}

// GetAIUsage returns the accumulated usage for a day. A day without usage
// returns a zero record rather than an error.
func (ds *DataStore) GetAIUsage(date string) (AIUsage, error) {
	var usage AIUsage
	err := ds.DB.Where("date = ?", date).First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AIUsage{Date: date}, nil
		}
		return AIUsage{}, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_ai_usage").
			Context("date", date).
			Build()
	}
	return usage, nil
}

// GetAIUsageDetails returns the per-operation usage rows for a day.
func (ds *DataStore) GetAIUsageDetails(date string) ([]AIUsageDetail, error) {
	var details []AIUsageDetail
	if err := ds.DB.
		Where("date = ?", date).
		Order("created_at ASC").
		Find(&details).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_ai_usage_details").
			Context("date", date).
			Build()
	}
	return details, nil
}
