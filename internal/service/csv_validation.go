package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/owl-tennis/internal/models"
)

// csvColumns is the required header of a prediction export.
var csvColumns = []string{
	"event_key", "match_date", "predicted_winner", "actual_winner",
	"confidence", "odds", "bet_placed",
}

// RowIssue describes one rejected CSV row.
type RowIssue struct {
	Line    int
	Message string
}

func (i RowIssue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// ParsePredictionCSV reads an externally produced prediction export and
// converts the valid rows into prediction records scorable by BuildReport.
// Invalid rows are reported, not fatal; a malformed header is.
func ParsePredictionCSV(r io.Reader, modelID string) ([]*models.PredictionResult, []RowIssue, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, nil, err
	}

	var (
		records []*models.PredictionResult
		issues  []RowIssue
		line    = 1
	)
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			issues = append(issues, RowIssue{Line: line, Message: err.Error()})
			continue
		}

		record, issue := parseRow(row, line, modelID)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		records = append(records, record)
	}
	return records, issues, nil
}

func validateHeader(header []string) error {
	if len(header) != len(csvColumns) {
		return fmt.Errorf("expected %d columns, got %d", len(csvColumns), len(header))
	}
	for i, want := range csvColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("column %d must be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

func parseRow(row []string, line int, modelID string) (*models.PredictionResult, *RowIssue) {
	if len(row) != len(csvColumns) {
		return nil, &RowIssue{Line: line, Message: fmt.Sprintf("expected %d fields, got %d", len(csvColumns), len(row))}
	}

	eventKey := strings.TrimSpace(row[0])
	if eventKey == "" {
		return nil, &RowIssue{Line: line, Message: "event_key is empty"}
	}

	matchDate, err := time.Parse("2006-01-02", strings.TrimSpace(row[1]))
	if err != nil {
		return nil, &RowIssue{Line: line, Message: fmt.Sprintf("invalid match_date %q", row[1])}
	}

	predicted := strings.TrimSpace(row[2])
	actual := strings.TrimSpace(row[3])
	if predicted == "" || actual == "" {
		return nil, &RowIssue{Line: line, Message: "predicted_winner and actual_winner are required"}
	}

	confidence, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return nil, &RowIssue{Line: line, Message: fmt.Sprintf("invalid confidence %q", row[4])}
	}
	conf, _ := confidence.Float64()
	if conf < 0 || conf > 1 {
		return nil, &RowIssue{Line: line, Message: fmt.Sprintf("confidence %s out of [0,1]", confidence)}
	}

	record := &models.PredictionResult{
		ID:              uuid.New(),
		ModelID:         modelID,
		EventKey:        eventKey,
		MatchDate:       matchDate,
		PredictedWinner: predicted,
		ActualWinner:    actual,
		Correct:         predicted == actual,
		Confidence:      conf,
		CreatedAt:       time.Now().UTC(),
	}

	// Brier is scored against the confidence the export claimed for its
	// pick: the probability of the actual winner is conf when correct,
	// 1-conf otherwise.
	actualProb := conf
	if !record.Correct {
		actualProb = 1 - conf
	}
	record.Probability = actualProb
	record.BrierScore = (1 - actualProb) * (1 - actualProb)

	oddsField := strings.TrimSpace(row[5])
	betField := strings.TrimSpace(strings.ToLower(row[6]))
	betPlaced := betField == "true" || betField == "1" || betField == "yes"

	if oddsField != "" {
		odds, err := decimal.NewFromString(oddsField)
		if err != nil {
			return nil, &RowIssue{Line: line, Message: fmt.Sprintf("invalid odds %q", row[5])}
		}
		v, _ := odds.Float64()
		if v <= 1.0 {
			return nil, &RowIssue{Line: line, Message: fmt.Sprintf("odds %s must exceed 1.0", odds)}
		}
		record.PredictedOdds = &v
	}

	if betPlaced {
		if record.PredictedOdds == nil {
			return nil, &RowIssue{Line: line, Message: "bet_placed row is missing odds"}
		}
		record.BetPlaced = true
		record.Stake = 1.0
		if record.Correct {
			record.Profit = *record.PredictedOdds - 1.0
		} else {
			record.Profit = -1.0
		}
	}

	return record, nil
}
