package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomblance/drip/internal/common"
)

// scriptedGenAI answers extraction prompts with metrics JSON and summary
// prompts with a fixed sentence.
type scriptedGenAI struct {
	metricsJSON map[string]string // keyed by quarter name appearing in the prompt
	summary     string
	err         error
	prompts     []string
}

func (g *scriptedGenAI) GenerateContent(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	for quarter, response := range g.metricsJSON {
		if strings.Contains(prompt, "Extract data from this "+quarter) {
			return response, nil
		}
	}
	return g.summary, nil
}

func newTestService(genai *scriptedGenAI) *Service {
	svc := NewService(genai, common.NewSilentLogger())
	svc.extract = func(r io.ReaderAt, size int64) (string, error) {
		return "Three Months Ended revenue tables", nil
	}
	return svc
}

func fakeReports(names ...string) (map[string]io.ReaderAt, map[string]int64) {
	reports := make(map[string]io.ReaderAt, len(names))
	sizes := make(map[string]int64, len(names))
	for _, name := range names {
		content := "%PDF-1.4 fake"
		reports[name] = strings.NewReader(content)
		sizes[name] = int64(len(content))
	}
	return reports, sizes
}

func TestAnalyse(t *testing.T) {
	genai := &scriptedGenAI{
		metricsJSON: map[string]string{
			"Q1": "```json\n{\"quarterly_revenue_bn\": 14.2, \"eps\": 11.58, \"net_interest_income_millions\": 1610, \"dividend_per_share\": 2.75, \"assets_under_supervision_bn\": 2848}\n```",
			"Q2": "{\"quarterly_revenue_bn\": 12.7, \"eps\": 8.62, \"net_interest_income_millions\": 1700, \"dividend_per_share\": 2.75, \"assets_under_supervision_bn\": 2932}",
		},
		summary: "Revenue declined quarter over quarter while assets grew.",
	}
	svc := newTestService(genai)

	reports, sizes := fakeReports("Q1", "Q2")
	analysis, err := svc.Analyse(context.Background(), reports, sizes)
	require.NoError(t, err)

	require.Len(t, analysis.Quarters, 2)
	assert.Equal(t, 14.2, analysis.Quarters["Q1"].QuarterlyRevenueBn)
	assert.Equal(t, 8.62, analysis.Quarters["Q2"].EPS)
	assert.Equal(t, 2932.0, analysis.Quarters["Q2"].AssetsUnderSupervisionBn)
	assert.Equal(t, "Revenue declined quarter over quarter while assets grew.", analysis.Summary)

	// Two extraction prompts plus one summary prompt.
	assert.Len(t, genai.prompts, 3)
	assert.Contains(t, genai.prompts[len(genai.prompts)-1], "executive summary")
}

func TestAnalyseNoReports(t *testing.T) {
	svc := newTestService(&scriptedGenAI{})
	_, err := svc.Analyse(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestAnalyseModelFailure(t *testing.T) {
	genai := &scriptedGenAI{err: errors.New("quota exceeded")}
	svc := newTestService(genai)

	reports, sizes := fakeReports("Q1")
	_, err := svc.Analyse(context.Background(), reports, sizes)
	assert.ErrorContains(t, err, "Q1")
}

func TestAnalyseUnparseableMetrics(t *testing.T) {
	genai := &scriptedGenAI{
		metricsJSON: map[string]string{"Q1": "Sorry, I could not find the figures."},
	}
	svc := newTestService(genai)

	reports, sizes := fakeReports("Q1")
	_, err := svc.Analyse(context.Background(), reports, sizes)
	assert.ErrorContains(t, err, "Q1")
}

func TestParseMetricsResponseFenceVariants(t *testing.T) {
	want := 14.2

	cases := []string{
		"{\"quarterly_revenue_bn\": 14.2}",
		"```json\n{\"quarterly_revenue_bn\": 14.2}\n```",
		"```\n{\"quarterly_revenue_bn\": 14.2}\n```",
		"  \n```json\n{\"quarterly_revenue_bn\": 14.2}\n```  ",
	}
	for _, response := range cases {
		metrics, err := parseMetricsResponse(response)
		require.NoError(t, err, "response: %q", response)
		assert.Equal(t, want, metrics.QuarterlyRevenueBn)
	}
}

func TestExtractFailureNamesReport(t *testing.T) {
	svc := NewService(&scriptedGenAI{}, common.NewSilentLogger())
	svc.extract = func(r io.ReaderAt, size int64) (string, error) {
		return "", errors.New("no extractable text")
	}

	reports, sizes := fakeReports("Q3")
	_, err := svc.Analyse(context.Background(), reports, sizes)
	assert.ErrorContains(t, err, "Q3")
}
