//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

var placeholder = regexp.MustCompile(`{{\s*([A-Za-z0-9_]+)\s*}}`)

// registerAuthSteps registers steps that create and log in users.
func registerAuthSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I am registered as "([^"]*)"$`, iAmRegisteredAs)
	ctx.Step(`^I am registered as "([^"]*)" named "([^"]*)"$`, iAmRegisteredAsNamed)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, iRememberTheResponseFieldAs)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, theResponseFieldShouldHaveItems)
	ctx.Step(`^the response header "([^"]*)" should contain "([^"]*)"$`, theResponseHeaderShouldContain)
}

// registerBackgroundSteps registers steps driving the saver, the database and
// the reminder worker.
func registerBackgroundSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^all pending saves are written$`, allPendingSavesAreWritten)
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the clock is at "([^"]*)"$`, theClockIsAt)
	ctx.Step(`^the reminder worker runs$`, theReminderWorkerRuns)
	ctx.Step(`^the email API responds to "([^"]*)" "([^"]*)" with status (\d+)$`, theEmailAPIRespondsWithStatus)
	ctx.Step(`^the email API should have received (\d+) "([^"]*)" requests? to "([^"]*)"$`, theEmailAPIShouldHaveReceived)
	ctx.Step(`^the email request (\d+) to "([^"]*)" field "([^"]*)" should be "([^"]*)"$`, theEmailRequestFieldShouldBe)
}

// Auth steps

func iAmRegisteredAs(ctx context.Context, email string) (context.Context, error) {
	return iAmRegisteredAsNamed(ctx, email, "Test User")
}

func iAmRegisteredAsNamed(ctx context.Context, email, name string) (context.Context, error) {
	tc := GetTestContext(ctx)
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"name":     name,
		"password": "Password123!",
	})
	if err := tc.do(http.MethodPost, "/api/v1/auth/register", body); err != nil {
		return ctx, err
	}
	if tc.statusCode != http.StatusCreated {
		return ctx, fmt.Errorf("registration of %s failed with %d: %s", email, tc.statusCode, tc.responseBody)
	}
	if tc.accessToken == "" {
		return ctx, errors.New("registration did not return an access token")
	}
	return ctx, nil
}

func iAmNotAuthenticated(ctx context.Context) error {
	tc := GetTestContext(ctx)
	tc.accessToken = ""
	tc.refreshToken = ""
	return nil
}

// Request steps

func theAPIServerIsRunning(ctx context.Context) error {
	if app == nil || app.server == nil {
		return errors.New("test server is not running")
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	tc := GetTestContext(ctx)
	return tc.do(method, tc.expand(endpoint), nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	return tc.do(method, tc.expand(endpoint), []byte(tc.expand(body.Content)))
}

func iSetHeaderTo(ctx context.Context, key, value string) error {
	tc := GetTestContext(ctx)
	tc.requestHeaders[key] = tc.expand(value)
	return nil
}

func iRememberTheResponseFieldAs(ctx context.Context, field, name string) error {
	tc := GetTestContext(ctx)
	value, err := tc.field(field)
	if err != nil {
		return err
	}
	tc.remembered[name] = fmt.Sprintf("%v", value)
	return nil
}

// do sends the request and records the response. Tokens found in the
// response are kept for later requests.
func (tc *TestContext) do(method, endpoint string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, app.server.URL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}

	resp, err := app.server.Client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.statusCode = resp.StatusCode
	tc.responseHeader = resp.Header
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var decoded map[string]any
	if json.Unmarshal(tc.responseBody, &decoded) == nil {
		if token, ok := decoded["access_token"].(string); ok && token != "" {
			tc.accessToken = token
		}
		if token, ok := decoded["refresh_token"].(string); ok && token != "" {
			tc.refreshToken = token
			tc.remembered["refresh_token"] = token
		}
	}
	return nil
}

// expand substitutes {{name}} placeholders with remembered values.
func (tc *TestContext) expand(content string) string {
	return placeholder.ReplaceAllStringFunc(content, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if value, ok := tc.remembered[name]; ok {
			return value
		}
		return match
	})
}

// Response steps

func theResponseStatusShouldBe(ctx context.Context, expected int) error {
	tc := GetTestContext(ctx)
	if tc.statusCode != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expected, tc.statusCode, tc.responseBody)
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if !json.Valid(tc.responseBody) {
		return fmt.Errorf("response is not JSON: %s", tc.responseBody)
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	value, err := tc.field(field)
	if err != nil {
		return err
	}
	expected = tc.expand(expected)
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	_, err := GetTestContext(ctx).field(field)
	return err
}

func theResponseFieldShouldHaveItems(ctx context.Context, field string, count int) error {
	value, err := GetTestContext(ctx).field(field)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, value)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func theResponseHeaderShouldContain(ctx context.Context, header, expected string) error {
	tc := GetTestContext(ctx)
	if actual := tc.responseHeader.Get(header); !strings.Contains(actual, expected) {
		return fmt.Errorf("header '%s' expected to contain '%s', got '%s'", header, expected, actual)
	}
	return nil
}

func (tc *TestContext) field(field string) (any, error) {
	var body any
	if err := json.Unmarshal(tc.responseBody, &body); err != nil {
		return nil, fmt.Errorf("response is not JSON: %s", tc.responseBody)
	}
	value := getFieldValue(body, field)
	if value == nil {
		return nil, fmt.Errorf("field '%s' not found in response: %s", field, tc.responseBody)
	}
	return value, nil
}

// getFieldValue walks a dot separated path through decoded JSON. Numeric
// segments index into lists.
func getFieldValue(object any, dotSeparatedField string) any {
	field := object
	for _, current := range strings.Split(dotSeparatedField, ".") {
		switch v := field.(type) {
		case map[string]any:
			field = v[current]
		case []any:
			i, err := strconv.Atoi(current)
			if err != nil || i < 0 || i >= len(v) {
				return nil
			}
			field = v[i]
		default:
			return nil
		}
	}
	return field
}

// Background steps

func allPendingSavesAreWritten(ctx context.Context) error {
	app.injector.Saver.Flush(ctx)
	if pending := app.injector.Saver.Pending(); pending != 0 {
		return fmt.Errorf("%d saves still pending", pending)
	}
	return nil
}

func theDbShouldContainObjectsInTheTable(ctx context.Context, quantity int, table string) error {
	count, err := app.db.Count(table)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func theClockIsAt(ctx context.Context, instant string) error {
	t, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		return fmt.Errorf("invalid instant %q: %w", instant, err)
	}
	app.clock.SetCurrentTime(t)
	return nil
}

func theReminderWorkerRuns(ctx context.Context) error {
	if app.injector.ReminderWorker == nil {
		return errors.New("reminder worker is not configured")
	}
	app.injector.Saver.Flush(ctx)
	app.injector.ReminderWorker.ProcessNow(ctx)
	return nil
}

func theEmailAPIRespondsWithStatus(ctx context.Context, method, path string, status int) error {
	app.emailAPI.SetResponse(method, path, status, map[string]any{
		"statusCode": status,
		"name":       "application_error",
		"message":    "rejected by test",
	})
	return nil
}

func theEmailAPIShouldHaveReceived(ctx context.Context, count int, method, path string) error {
	if actual := app.emailAPI.RequestCount(method, path); actual != count {
		return fmt.Errorf("expected %d %s %s requests, got %d", count, method, path, actual)
	}
	return nil
}

func theEmailRequestFieldShouldBe(ctx context.Context, index int, path, field, expected string) error {
	body := app.emailAPI.GetRequestBody(http.MethodPost, path, index)
	if body == nil {
		return fmt.Errorf("no request %d to %s", index, path)
	}
	value := getFieldValue(body, field)
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("email field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}
