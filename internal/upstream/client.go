package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"school_ops_backend/internal/inventory"
	"school_ops_backend/internal/metrics"
	"school_ops_backend/internal/models"
	"school_ops_backend/pkg/utils"
)

// ItemQuery carries the server-side list filters supported by the backend.
// Zero fields are omitted from the query string.
type ItemQuery struct {
	Location   string
	SchoolID   int64
	CategoryID int64
	Status     string
	AssignedTo string
	Search     string
}

// ItemPayload is the create/update body for an inventory item. Quantity is
// only set on bulk create, where the backend generates one unique id per
// unit.
type ItemPayload struct {
	Name          string     `json:"name"`
	Description   *string    `json:"description,omitempty"`
	CategoryID    *int64     `json:"category_id,omitempty"`
	Location      string     `json:"location"`
	SchoolID      *int64     `json:"school_id,omitempty"`
	Status        string     `json:"status"`
	AssignedToID  *int64     `json:"assigned_to,omitempty"`
	PurchaseValue string     `json:"purchase_value"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	SerialNumber  *string    `json:"serial_number,omitempty"`
	Quantity      int        `json:"quantity,omitempty"`
}

// ReportRequest is the body for the inventory list report document.
type ReportRequest struct {
	Filters    inventory.FilterCriteria `json:"filters"`
	GroupItems bool                     `json:"group_items"`
}

// DataAccess is the seam to the school backend. All collections it serves
// are canonical; this service only reads and derives. Production code uses
// the resty client below, tests inject fakes.
type DataAccess interface {
	ListItems(ctx context.Context, q ItemQuery) ([]models.InventoryItem, error)
	CreateItem(ctx context.Context, p ItemPayload) (*models.InventoryItem, error)
	BulkCreateItems(ctx context.Context, p ItemPayload, quantity int) (int, error)
	UpdateItem(ctx context.Context, id int64, p ItemPayload) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, c models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListSchools(ctx context.Context) ([]models.School, error)
	ListAssignableUsers(ctx context.Context) ([]models.AppUser, error)
	ListEmployees(ctx context.Context) ([]models.AppUser, error)
	GetSummary(ctx context.Context) (*models.InventorySummary, error)

	TransferReceipt(ctx context.Context, req inventory.TransferRequest) ([]byte, error)
	InventoryListReport(ctx context.Context, req ReportRequest) ([]byte, error)
	ItemDetailReport(ctx context.Context, itemID int64) ([]byte, error)
}

// Config holds the upstream connection settings.
type Config struct {
	BaseURL  string
	APIToken string
	// Timeout bounds plain API calls; DocumentTimeout bounds the slow
	// document-generating endpoints.
	Timeout         time.Duration
	DocumentTimeout time.Duration
}

// Client is the resty-backed DataAccess implementation. Two clients share
// one circuit breaker: document generation is slow server-side, so those
// calls get their own generous timeout.
type Client struct {
	api     *resty.Client
	docs    *resty.Client
	breaker *Breaker
}

var _ DataAccess = (*Client)(nil)

// NewClient builds a Client from the given config.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.DocumentTimeout == 0 {
		cfg.DocumentTimeout = 45 * time.Second
	}
	newClient := func(timeout time.Duration) *resty.Client {
		return resty.New().
			SetBaseURL(cfg.BaseURL).
			SetAuthToken(cfg.APIToken).
			SetTimeout(timeout).
			SetRetryCount(0) // failures are handled by the circuit breaker
	}
	return &Client{
		api:     newClient(cfg.Timeout),
		docs:    newClient(cfg.DocumentTimeout),
		breaker: NewBreaker("school-backend"),
	}
}

// execute runs an upstream call through the circuit breaker. Transport
// errors and 5xx responses count as breaker failures; 4xx responses are
// business answers and pass through for decoding.
func (c *Client) execute(endpoint string, fn func() (*resty.Response, error)) (*resty.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := fn()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if resp.StatusCode() >= 500 {
			return nil, &RequestError{StatusCode: resp.StatusCode(), Message: "backend error"}
		}
		return resp, nil
	})
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		utils.LogError(err, "Upstream call failed")
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return result.(*resty.Response), nil
}

type errorEnvelope struct {
	Error *struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

// decodeError turns a 4xx response into a RequestError, keeping the
// backend's field messages verbatim.
func decodeError(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Error != nil {
		return &RequestError{
			StatusCode: resp.StatusCode(),
			Message:    env.Error.Message,
			Fields:     env.Error.Fields,
		}
	}
	return &RequestError{
		StatusCode: resp.StatusCode(),
		Message:    strings.TrimSpace(string(resp.Body())),
	}
}

func (c *Client) ListItems(ctx context.Context, q ItemQuery) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	req := c.api.R().SetContext(ctx).SetResult(&items)
	if q.Location != "" {
		req.SetQueryParam("location", q.Location)
	}
	if q.SchoolID != 0 {
		req.SetQueryParam("school_id", utils.Int64ToStr(q.SchoolID))
	}
	if q.CategoryID != 0 {
		req.SetQueryParam("category_id", utils.Int64ToStr(q.CategoryID))
	}
	if q.Status != "" {
		req.SetQueryParam("status", q.Status)
	}
	if q.AssignedTo != "" {
		req.SetQueryParam("assigned_to", q.AssignedTo)
	}
	if q.Search != "" {
		req.SetQueryParam("search", q.Search)
	}

	resp, err := c.execute("list_items", func() (*resty.Response, error) {
		return req.Get("/api/v1/inventory/items")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, p ItemPayload) (*models.InventoryItem, error) {
	var item models.InventoryItem
	resp, err := c.execute("create_item", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetBody(p).SetResult(&item).
			Post("/api/v1/inventory/items")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) BulkCreateItems(ctx context.Context, p ItemPayload, quantity int) (int, error) {
	p.Quantity = quantity
	var result struct {
		CreatedCount int `json:"created_count"`
	}
	resp, err := c.execute("bulk_create_items", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetBody(p).SetResult(&result).
			Post("/api/v1/inventory/items/bulk")
	})
	if err != nil {
		return 0, err
	}
	if err := decodeError(resp); err != nil {
		return 0, err
	}
	return result.CreatedCount, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int64, p ItemPayload) (*models.InventoryItem, error) {
	var item models.InventoryItem
	resp, err := c.execute("update_item", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetBody(p).SetResult(&item).
			Put("/api/v1/inventory/items/" + utils.Int64ToStr(id))
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	resp, err := c.execute("delete_item", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).
			Delete("/api/v1/inventory/items/" + utils.Int64ToStr(id))
	})
	if err != nil {
		return err
	}
	return decodeError(resp)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	resp, err := c.execute("list_categories", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetResult(&categories).
			Get("/api/v1/categories")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	var created models.Category
	resp, err := c.execute("create_category", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetBody(cat).SetResult(&created).
			Post("/api/v1/categories")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, cat models.Category) (*models.Category, error) {
	var updated models.Category
	resp, err := c.execute("update_category", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetBody(cat).SetResult(&updated).
			Put("/api/v1/categories/" + utils.Int64ToStr(id))
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory deletes a category. The backend rejects the delete with a
// conflict while the category still has items.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	resp, err := c.execute("delete_category", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).
			Delete("/api/v1/categories/" + utils.Int64ToStr(id))
	})
	if err != nil {
		return err
	}
	return decodeError(resp)
}

func (c *Client) ListSchools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	resp, err := c.execute("list_schools", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetResult(&schools).
			Get("/api/v1/schools")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return schools, nil
}

func (c *Client) ListAssignableUsers(ctx context.Context) ([]models.AppUser, error) {
	var users []models.AppUser
	resp, err := c.execute("list_assignable_users", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetResult(&users).
			Get("/api/v1/users/assignable")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]models.AppUser, error) {
	var employees []models.AppUser
	resp, err := c.execute("list_employees", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetResult(&employees).
			Get("/api/v1/employees")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) GetSummary(ctx context.Context) (*models.InventorySummary, error) {
	var summary models.InventorySummary
	resp, err := c.execute("get_summary", func() (*resty.Response, error) {
		return c.api.R().SetContext(ctx).SetResult(&summary).
			Get("/api/v1/inventory/summary")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return &summary, nil
}

// TransferReceipt submits a transfer (or report-only run when IsTransfer
// is false) and returns the generated document bytes.
func (c *Client) TransferReceipt(ctx context.Context, req inventory.TransferRequest) ([]byte, error) {
	resp, err := c.execute("transfer_receipt", func() (*resty.Response, error) {
		return c.docs.R().SetContext(ctx).SetBody(req).
			Post("/api/v1/inventory/transfer-receipt")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Client) InventoryListReport(ctx context.Context, req ReportRequest) ([]byte, error) {
	resp, err := c.execute("inventory_list_report", func() (*resty.Response, error) {
		return c.docs.R().SetContext(ctx).SetBody(req).
			Post("/api/v1/inventory/reports")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func (c *Client) ItemDetailReport(ctx context.Context, itemID int64) ([]byte, error) {
	resp, err := c.execute("item_detail_report", func() (*resty.Response, error) {
		return c.docs.R().SetContext(ctx).
			Get("/api/v1/inventory/items/" + utils.Int64ToStr(itemID) + "/report")
	})
	if err != nil {
		return nil, err
	}
	if err := decodeError(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
