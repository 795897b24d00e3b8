package sheets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"GISourceSync/internal/config"
	"GISourceSync/internal/model"

	"cloud.google.com/go/auth"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (*auth.Token, error) {
	return &auth.Token{Value: string(s), Type: "Bearer"}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(baseURL string) *config.VerificationConfig {
	return &config.VerificationConfig{
		Type:              config.SourceSheets,
		BaseURL:           baseURL,
		SpreadsheetID:     "sheet-1",
		Range:             "Filled",
		ValueRenderOption: "UNFORMATTED_VALUE",
		Timeout:           5,
	}
}

const filledBody = `{
  "range": "Filled!A1:E4",
  "majorDimension": "ROWS",
  "values": [
    ["Source", "Deadline", "Verifier", "Direction", "University_CN"],
    ["https://a.org/1", 45306, "alice", "GIS", "北京大学"],
    ["https://a.org/2", "Soon", "LLM"],
    [" https://a.org/3 ", "2024-03-01", "bob", "RS"]
  ]
}`

func TestFetchVerificationsWithBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-1/values/Filled", r.URL.Path)
		assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		assert.Equal(t, "ROWS", r.URL.Query().Get("majorDimension"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, filledBody)
	}))
	defer srv.Close()

	a := NewAdapterWithTokens(testConfig(srv.URL), staticTokens("tok-123"), quietLogger())
	assert.Equal(t, "google_sheets", a.Name())

	records, err := a.FetchVerifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.VerificationRecord{
		{Source: "https://a.org/1", DeadlineRaw: "45306", Verifier: "alice", Direction: "GIS", UniversityCN: "北京大学"},
		{Source: "https://a.org/2", DeadlineRaw: "Soon", Verifier: "LLM"},
		{Source: " https://a.org/3 ", DeadlineRaw: "2024-03-01", Verifier: "bob", Direction: "RS"},
	}, records)
}

func TestFetchVerificationsWithAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-1/values/Filled!A:E", r.URL.Path)
		assert.Equal(t, "k-1", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"range":"Filled!A:E","majorDimension":"ROWS"}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/")
	cfg.APIKey = "k-1"
	cfg.Range = "Filled!A:E"

	tokens, err := NewTokenProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, tokens)

	records, err := NewAdapterWithTokens(cfg, tokens, quietLogger()).FetchVerifications(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFetchVerificationsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	_, err := NewAdapterWithTokens(testConfig(srv.URL), staticTokens("t"), quietLogger()).FetchVerifications(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "The caller does not have permission")
}

func TestParseValuesMissingColumn(t *testing.T) {
	_, err := ParseValues([]byte(`{"values":[["Source","Verifier"],["https://a.org","alice"]]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Deadline")
}

func TestParseValuesInvalidJSON(t *testing.T) {
	_, err := ParseValues([]byte(`<html>`))
	assert.Error(t, err)
}

func TestParseValuesHeaderOnlyAndColumnOrder(t *testing.T) {
	records, err := ParseValues([]byte(`{"values":[["Verifier","Extra","Deadline","Source"]]}`))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ParseValues([]byte(`{"values":[[" Verifier ","Extra","Deadline","Source"],["carol","x",45306.5,"https://b.org"],[]]}`))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.VerificationRecord{Source: "https://b.org", DeadlineRaw: "45306.5", Verifier: "carol"}, records[0])
	assert.Equal(t, model.VerificationRecord{}, records[1])
}
