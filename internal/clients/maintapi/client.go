package maintapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/plantops/maintdash/internal/domain"
)

// Client talks to the dashboard's REST API. Resources are addressed by name
// and id; list endpoints accept a simple filter/order query language:
// ?filter=field:value (repeatable) and ?order=field or ?order=-field.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Query narrows and orders a list request.
type Query struct {
	Filter map[string]string
	Order  string // field name, "-" prefix for descending
}

func (q Query) values() url.Values {
	v := url.Values{}
	keys := make([]string, 0, len(q.Filter))
	for k := range q.Filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Add("filter", k+":"+q.Filter[k])
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

// NewClient creates a new dashboard API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// doRequest performs an HTTP request with auth
func (c *Client) doRequest(method, path string, query url.Values, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrNotFound, method, path)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// ListMachines returns machines matching the query, task lists included
func (c *Client) ListMachines(q Query) ([]domain.Machine, error) {
	data, err := c.doRequest("GET", "/machines", q.values(), nil)
	if err != nil {
		return nil, err
	}

	var machines []Machine
	if err := json.Unmarshal(data, &machines); err != nil {
		return nil, fmt.Errorf("unmarshal machines: %w", err)
	}

	out := make([]domain.Machine, 0, len(machines))
	for _, m := range machines {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// GetMachine returns a single machine by ID
func (c *Client) GetMachine(id string) (*domain.Machine, error) {
	data, err := c.doRequest("GET", "/machines/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var machine Machine
	if err := json.Unmarshal(data, &machine); err != nil {
		return nil, fmt.Errorf("unmarshal machine: %w", err)
	}

	m := machine.toDomain()
	return &m, nil
}

// CreateMachine creates a machine and returns the stored document
func (c *Client) CreateMachine(m domain.Machine) (*domain.Machine, error) {
	data, err := c.doRequest("POST", "/machines", nil, machineFromDomain(m))
	if err != nil {
		return nil, err
	}

	var created Machine
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("unmarshal machine: %w", err)
	}

	out := created.toDomain()
	return &out, nil
}

// UpdateMachine replaces the mutable fields of a machine, task list included
func (c *Client) UpdateMachine(m domain.Machine) error {
	_, err := c.doRequest("PATCH", "/machines/"+m.ID, nil, machineFromDomain(m))
	return err
}

// DeleteMachine deletes a machine
func (c *Client) DeleteMachine(id string) error {
	_, err := c.doRequest("DELETE", "/machines/"+id, nil, nil)
	return err
}

// ListRooms returns all rooms
func (c *Client) ListRooms(q Query) ([]domain.Room, error) {
	data, err := c.doRequest("GET", "/rooms", q.values(), nil)
	if err != nil {
		return nil, err
	}

	var rooms []Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("unmarshal rooms: %w", err)
	}

	out := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// GetRoom returns a single room by ID
func (c *Client) GetRoom(id string) (*domain.Room, error) {
	data, err := c.doRequest("GET", "/rooms/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("unmarshal room: %w", err)
	}

	r := room.toDomain()
	return &r, nil
}

// ListTickets returns tickets matching the query
func (c *Client) ListTickets(q Query) ([]domain.Ticket, error) {
	data, err := c.doRequest("GET", "/tickets", q.values(), nil)
	if err != nil {
		return nil, err
	}

	var tickets []Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("unmarshal tickets: %w", err)
	}

	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.toDomain())
	}
	return out, nil
}

// GetTicket returns a single ticket by ID
func (c *Client) GetTicket(id string) (*domain.Ticket, error) {
	data, err := c.doRequest("GET", "/tickets/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, fmt.Errorf("unmarshal ticket: %w", err)
	}

	t := ticket.toDomain()
	return &t, nil
}

// CreateTicket creates a ticket and returns the stored document
func (c *Client) CreateTicket(t domain.Ticket) (*domain.Ticket, error) {
	data, err := c.doRequest("POST", "/tickets", nil, ticketFromDomain(t))
	if err != nil {
		return nil, err
	}

	var created Ticket
	if err := json.Unmarshal(data, &created); err != nil {
		return nil, fmt.Errorf("unmarshal ticket: %w", err)
	}

	out := created.toDomain()
	return &out, nil
}

// PatchTicket applies a partial update to a ticket
func (c *Client) PatchTicket(id string, patch TicketPatch) error {
	_, err := c.doRequest("PATCH", "/tickets/"+id, nil, patch)
	return err
}

// DeleteTicket deletes a ticket
func (c *Client) DeleteTicket(id string) error {
	_, err := c.doRequest("DELETE", "/tickets/"+id, nil, nil)
	return err
}

// ListUsers returns dashboard users
func (c *Client) ListUsers(q Query) ([]domain.Technician, error) {
	data, err := c.doRequest("GET", "/users", q.values(), nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}

	out := make([]domain.Technician, 0, len(users))
	for _, u := range users {
		out = append(out, u.toDomain())
	}
	return out, nil
}

// GetUser returns a single user by ID
func (c *Client) GetUser(id string) (*domain.Technician, error) {
	data, err := c.doRequest("GET", "/users/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}

	u := user.toDomain()
	return &u, nil
}
