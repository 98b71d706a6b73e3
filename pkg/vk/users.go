package vk

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

type City struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// User is the subset of the VK user object the bot reads.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BDate     string `json:"bdate,omitempty"`
	City      *City  `json:"city,omitempty"`
	Sex       int    `json:"sex"`
	IsClosed  bool   `json:"is_closed"`
}

// UsersGet returns the profile of a single user with the requested fields.
func (c *Client) UsersGet(ctx context.Context, userID int64, fields ...string) ([]User, error) {
	params := url.Values{}
	params.Set("user_ids", itoa(userID))
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	var users []User
	if err := c.call(ctx, "users.get", params, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SearchParams mirrors the users.search filter.
type SearchParams struct {
	AgeFrom  int
	AgeTo    int
	Sex      int
	City     int64
	Status   int
	HasPhoto bool
	Sort     int
	Count    int
	// OnlyOpen asks VK to skip private profiles.
	OnlyOpen bool
}

type itemsResponse[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}

func (c *Client) UsersSearch(ctx context.Context, p SearchParams) ([]User, error) {
	params := url.Values{}
	params.Set("sort", strconv.Itoa(p.Sort))
	if p.Count > 0 {
		params.Set("count", strconv.Itoa(p.Count))
	}
	params.Set("age_from", strconv.Itoa(p.AgeFrom))
	params.Set("age_to", strconv.Itoa(p.AgeTo))
	params.Set("sex", strconv.Itoa(p.Sex))
	params.Set("city", itoa(p.City))
	params.Set("has_photo", boolParam(p.HasPhoto))
	if p.Status != 0 {
		params.Set("status", strconv.Itoa(p.Status))
	}
	if p.OnlyOpen {
		params.Set("is_closed", "0")
	}
	var resp itemsResponse[User]
	if err := c.call(ctx, "users.search", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
