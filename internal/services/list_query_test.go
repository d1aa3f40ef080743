package services_test

import (
	"testing"

	"gudang/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_Defaults(t *testing.T) {
	q := services.BuildListQuery("owner@example.com", services.ListParams{})

	assert.Equal(t, "owner@example.com", q.Filter.Owner)
	assert.Empty(t, q.Filter.Search)
	assert.Empty(t, q.Filter.Status)
	assert.Nil(t, q.Filter.MinPrice)
	assert.Nil(t, q.Filter.MaxPrice)
	assert.Equal(t, "created_at", q.Sort.Field)
	assert.True(t, q.Sort.Desc)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, services.DefaultPageSize, q.PageSize)
	assert.Equal(t, 0, q.Skip())
}

func TestBuildListQuery_SearchTrimmed(t *testing.T) {
	q := services.BuildListQuery("o", services.ListParams{Q: "  widget  "})
	assert.Equal(t, "widget", q.Filter.Search)
}

func TestBuildListQuery_StatusNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"active", "active"},
		{"archived", "archived"},
		{"all", ""},
		{"", ""},
		{"bogus", ""}, // unknown values are ignored, not rejected
	}
	for _, tc := range tests {
		q := services.BuildListQuery("o", services.ListParams{Status: tc.raw})
		assert.Equal(t, tc.want, q.Filter.Status, "status %q", tc.raw)
	}
}

func TestBuildListQuery_PriceBoundsParsedIndividually(t *testing.T) {
	q := services.BuildListQuery("o", services.ListParams{Min: "abc", Max: "99.5"})
	assert.Nil(t, q.Filter.MinPrice)
	if assert.NotNil(t, q.Filter.MaxPrice) {
		assert.Equal(t, 99.5, *q.Filter.MaxPrice)
	}

	q = services.BuildListQuery("o", services.ListParams{Min: "10"})
	if assert.NotNil(t, q.Filter.MinPrice) {
		assert.Equal(t, 10.0, *q.Filter.MinPrice)
	}
	assert.Nil(t, q.Filter.MaxPrice)
}

func TestBuildListQuery_SortWhitelist(t *testing.T) {
	q := services.BuildListQuery("o", services.ListParams{SortBy: "price", SortDir: "asc"})
	assert.Equal(t, "price", q.Sort.Field)
	assert.False(t, q.Sort.Desc)

	// Unknown sort keys fall back to createdAt descending; they can never
	// reach the store as raw column names.
	q = services.BuildListQuery("o", services.ListParams{SortBy: "owner; DROP TABLE products", SortDir: "sideways"})
	assert.Equal(t, "created_at", q.Sort.Field)
	assert.True(t, q.Sort.Desc)
}

func TestBuildListQuery_PagingClamps(t *testing.T) {
	q := services.BuildListQuery("o", services.ListParams{Page: "0", PageSize: "5000"})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, services.MaxPageSize, q.PageSize)

	q = services.BuildListQuery("o", services.ListParams{Page: "abc", PageSize: "-3"})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 1, q.PageSize)

	q = services.BuildListQuery("o", services.ListParams{Page: "3", PageSize: "25"})
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PageSize)
	assert.Equal(t, 50, q.Skip())
}
