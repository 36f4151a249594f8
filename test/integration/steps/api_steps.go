//go:build integration

package steps

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/adapters"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/persistence/model"
)

func (t *testContext) anOrganizationExistsWithNameAndSlug(name, slug string) error {
	orgID := uuid.New()
	t.currentOrgID = orgID

	org := &model.OrganizationModel{
		ID:        orgID,
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	return t.db.DbConn.Create(org).Error
}

func (t *testContext) iAmAuthenticatedAsAnAdministrator() error {
	tokenService := adapters.NewJWTTokenService(testJWTSecret)
	token, err := tokenService.GenerateAdminToken("integration-suite", time.Hour)
	if err != nil {
		return fmt.Errorf("failed to generate admin token: %w", err)
	}
	t.adminToken = token
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.adminToken = ""
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// expandEndpoint substitutes scenario placeholders with ids created in setup
// steps, so feature files never hard-code generated uuids.
func (t *testContext) expandEndpoint(endpoint string) string {
	endpoint = strings.ReplaceAll(endpoint, "{organizationId}", t.currentOrgID.String())
	return strings.ReplaceAll(endpoint, "{transactionId}", t.currentTxnID)
}

func (t *testContext) iNoteTheFirstListedTransaction() error {
	var data struct {
		Transactions []struct {
			ID string `json:"id"`
		} `json:"transactions"`
	}
	if err := json.Unmarshal(t.responseBody, &data); err != nil {
		return fmt.Errorf("failed to parse transaction listing: %w", err)
	}
	if len(data.Transactions) == 0 {
		return fmt.Errorf("no transactions in listing. Body: %s", string(t.responseBody))
	}
	t.currentTxnID = data.Transactions[0].ID
	return nil
}

func (t *testContext) iSendARequestTo(method, endpoint string) error {
	return t.doRequest(method, endpoint, nil, "")
}

func (t *testContext) iSendARequestToWithBody(method, endpoint string, body *godog.DocString) error {
	return t.doRequest(method, endpoint, []byte(body.Content), "application/json")
}

func (t *testContext) doRequest(method, endpoint string, body []byte, contentType string) error {
	url := t.uri + t.expandEndpoint(endpoint)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	if t.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.adminToken)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	t.response = resp
	t.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (t *testContext) iPreviewTheJournalCSV(csv *godog.DocString) error {
	payload, err := json.Marshal(map[string]string{
		"content": base64.StdEncoding.EncodeToString([]byte(csv.Content)),
	})
	if err != nil {
		return err
	}

	endpoint := "/api/v1/organizations/{organizationId}/import/preview"
	if err := t.doRequest(http.MethodPost, endpoint, payload, "application/json"); err != nil {
		return err
	}

	t.lastPreview = nil
	if t.response.StatusCode == http.StatusOK {
		var preview map[string]any
		if err := json.Unmarshal(t.responseBody, &preview); err != nil {
			return fmt.Errorf("failed to parse preview response: %w", err)
		}
		t.lastPreview = preview
	}

	return nil
}

func (t *testContext) iCommitThePreviewedTransactions() error {
	if t.lastPreview == nil {
		return fmt.Errorf("no successful preview to commit")
	}

	// The preview rows carry every field the commit endpoint binds, so the
	// committed payload is exactly what the operator reviewed.
	payload, err := json.Marshal(map[string]any{
		"transactions": t.lastPreview["transactions"],
	})
	if err != nil {
		return err
	}

	endpoint := "/api/v1/organizations/{organizationId}/import/commit"
	return t.doRequest(http.MethodPost, endpoint, payload, "application/json")
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return fmt.Errorf("no response received")
	}
	if t.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, t.response.StatusCode, string(t.responseBody))
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	var js json.RawMessage
	if err := json.Unmarshal(t.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(t.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(t.responseBody))
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expected string) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'. Body: %s", field, expected, actual, string(t.responseBody))
	}

	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	_, err := t.responseField(field)
	return err
}

// responseField resolves a dot-separated path into the decoded response body.
func (t *testContext) responseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(t.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	var value any = data
	for _, part := range strings.Split(field, ".") {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response. Body: %s", field, string(t.responseBody))
		}
		value, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response. Body: %s", field, string(t.responseBody))
		}
	}

	return value, nil
}

func (t *testContext) theResponseShouldMatchJSON(body *godog.DocString) error {
	var expected, actual any

	if err := json.Unmarshal([]byte(body.Content), &expected); err != nil {
		return fmt.Errorf("failed to parse expected JSON: %w", err)
	}
	if err := json.Unmarshal(t.responseBody, &actual); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}

	expectedJSON, _ := json.Marshal(expected)
	actualJSON, _ := json.Marshal(actual)

	if string(expectedJSON) != string(actualJSON) {
		return fmt.Errorf("expected JSON:\n%s\nactual JSON:\n%s", string(expectedJSON), string(actualJSON))
	}

	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(count int, table string) error {
	if _, ok := t.db.GetModel(table); !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	var actual int64
	if err := t.db.DbConn.Table(table).Count(&actual).Error; err != nil {
		return fmt.Errorf("failed to count rows in %q: %w", table, err)
	}

	if actual != int64(count) {
		return fmt.Errorf("expected %d rows in %q, got %d", count, table, actual)
	}

	return nil
}
