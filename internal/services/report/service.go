// Package report analyses uploaded quarterly earnings reports with a
// generative model: per-quarter metric extraction plus an executive summary.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
	"github.com/tomblance/drip/internal/models"
)

// maxReportChars bounds the text sent to the model per report.
const maxReportChars = 50000

// Service implements ReportService
type Service struct {
	genai  interfaces.GenAIClient
	logger *common.Logger

	// extract is injectable for tests
	extract func(r io.ReaderAt, size int64) (string, error)
}

// NewService creates a new report service
func NewService(genai interfaces.GenAIClient, logger *common.Logger) *Service {
	return &Service{
		genai:   genai,
		logger:  logger,
		extract: extractPDFText,
	}
}

// Analyse extracts metrics from each named PDF and generates an executive
// summary across quarters. A report that cannot be read or parsed fails the
// whole analysis; partial metric tables are worse than none.
func (s *Service) Analyse(ctx context.Context, reports map[string]io.ReaderAt, sizes map[string]int64) (*models.ReportAnalysis, error) {
	if len(reports) == 0 {
		return nil, fmt.Errorf("no reports to analyse")
	}

	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)

	quarters := make(map[string]models.QuarterlyMetrics, len(names))
	for _, name := range names {
		text, err := s.extract(reports[name], sizes[name])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		s.logger.Info().Str("report", name).Int("chars", len(text)).Msg("Extracting metrics")
		response, err := s.genai.GenerateContent(ctx, buildExtractionPrompt(name, text))
		if err != nil {
			return nil, fmt.Errorf("metric extraction for %s failed: %w", name, err)
		}

		metrics, err := parseMetricsResponse(response)
		if err != nil {
			return nil, fmt.Errorf("could not parse metrics for %s: %w", name, err)
		}
		quarters[name] = metrics
	}

	summary, err := s.generateSummary(ctx, quarters)
	if err != nil {
		return nil, err
	}

	return &models.ReportAnalysis{
		Quarters: quarters,
		Summary:  summary,
	}, nil
}

func (s *Service) generateSummary(ctx context.Context, quarters map[string]models.QuarterlyMetrics) (string, error) {
	data, err := json.MarshalIndent(quarters, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal quarter data: %w", err)
	}

	prompt := fmt.Sprintf(`Write a professional executive summary for these quarterly results.
Focus on the revenue trend and asset growth.

Data: %s`, data)

	summary, err := s.genai.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return strings.TrimSpace(summary), nil
}

func buildExtractionPrompt(quarter, text string) string {
	return fmt.Sprintf(`You are a financial analyst. Extract data from this %s report.

CRITICAL RULES:
1. Ignore "Year Ended" columns. ONLY use "Three Months Ended" (Quarterly).
2. Return ONLY a valid JSON object. No intro text.

REQUIRED JSON STRUCTURE:
{
    "quarterly_revenue_bn": 0.0,
    "eps": 0.0,
    "net_interest_income_millions": 0,
    "dividend_per_share": 0.0,
    "assets_under_supervision_bn": 0.0
}

REPORT TEXT:
%s`, quarter, text)
}

// parseMetricsResponse strips markdown code fences and unmarshals the
// metrics object.
func parseMetricsResponse(response string) (models.QuarterlyMetrics, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var metrics models.QuarterlyMetrics
	if err := json.Unmarshal([]byte(response), &metrics); err != nil {
		return models.QuarterlyMetrics{}, err
	}
	return metrics, nil
}

// extractPDFText extracts plain text from a PDF, truncated to the model
// context budget.
func extractPDFText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	totalPages := reader.NumPage()
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() > maxReportChars {
			break
		}
	}

	result := sb.String()
	if len(result) > maxReportChars {
		result = result[:maxReportChars]
	}
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("no extractable text")
	}
	return result, nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
