package tabular

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	defaultTimeout   = 10 * time.Second
	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"
)

// SheetsClient talks to one Google spreadsheet through the Sheets v4 API
type SheetsClient struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	timeout       time.Duration
}

// NewSheetsClient creates a client for spreadsheetID. Every call is bounded by
// timeout; a zero timeout uses the default
func NewSheetsClient(ctx context.Context, spreadsheetID string, timeout time.Duration, opts ...option.ClientOption) (*SheetsClient, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsClient{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
	}, nil
}

// ReadRange fetches the formatted values of rangeSpec
func (c *SheetsClient) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.values.Get(c.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, classifySheetsError("read", rangeSpec, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows, nil
}

// AppendRow uses the native values.append call so the store picks the row
// after the current table end
func (c *SheetsClient) AppendRow(ctx context.Context, rangeSpec string, values []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}

	_, err := c.values.Append(c.spreadsheetID, rangeSpec, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx).
		Do()
	if err != nil {
		return classifySheetsError("append", rangeSpec, err)
	}
	return nil
}

func classifySheetsError(op, rangeSpec string, err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%s %s: %w: %w", op, rangeSpec, ErrUpstreamUnavailable, err)
	}

	switch {
	case apiErr.Code == http.StatusNotFound,
		apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
		return fmt.Errorf("%s %s: %w: %w", op, rangeSpec, ErrRangeNotFound, err)
	case apiErr.Code == http.StatusUnauthorized,
		apiErr.Code == http.StatusForbidden,
		apiErr.Code >= http.StatusInternalServerError:
		return fmt.Errorf("%s %s: %w: %w", op, rangeSpec, ErrUpstreamUnavailable, err)
	case op == "append":
		return fmt.Errorf("%s %s: %w: %w", op, rangeSpec, ErrUpstreamRejected, err)
	default:
		return fmt.Errorf("%s %s: %w: %w", op, rangeSpec, ErrUpstreamUnavailable, err)
	}
}
