package apiclient

import (
	"net/url"
	"strconv"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"

	"github.com/tidwall/gjson"
)

func pageQuery(p domain.Pagination) url.Values {
	p = p.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	return q
}

// decodePage reads a Spring-style page. A bare JSON array is treated as a single last page.
func decodePage[T any](res gjson.Result, requested domain.Pagination) (models.Page[T], error) {
	requested = requested.Normalize()
	var page models.Page[T]

	if res.IsArray() {
		if err := decodeResult(res, &page.Items); err != nil {
			return page, err
		}
		page.Number = requested.Page
		page.Size = requested.Size
		page.Last = true
		return page, nil
	}

	content := res.Get("content")
	if !content.Exists() {
		content = res.Get("items")
	}
	if content.Exists() {
		if err := decodeResult(content, &page.Items); err != nil {
			return page, err
		}
	}
	if page.Items == nil {
		page.Items = []T{}
	}

	page.Number = requested.Page
	if n := res.Get("number"); n.Exists() {
		page.Number = int(n.Int())
	} else if n := res.Get("page"); n.Exists() {
		page.Number = int(n.Int())
	}
	page.Size = requested.Size
	if s := res.Get("size"); s.Exists() && s.Int() > 0 {
		page.Size = int(s.Int())
	}
	page.TotalPages = int(res.Get("totalPages").Int())
	page.TotalElements = int(res.Get("totalElements").Int())
	if l := res.Get("last"); l.Exists() {
		page.Last = l.Bool()
	} else {
		page.Last = !page.HasNext()
	}
	return page, nil
}
