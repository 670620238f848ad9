package http

import (
	"net/http"
	"strconv"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform/errors"
)

// Body is the success envelope shared by all handlers. Data holds the
// payload, Pagination is set on list responses only.
type Body struct {
	OK         bool        `json:"ok"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// OKBody wraps data in a Body with ok set.
func OKBody(data interface{}) Body {
	return Body{OK: true, Data: data}
}

// DecodeFindOptions reads the page and per_page query parameters off
// the request. Absent parameters fall back to the defaults, values
// that do not parse as positive integers are rejected.
func DecodeFindOptions(r *http.Request) (factoryd.FindOptions, error) {
	opts := factoryd.DefaultFindOptions()

	qp := r.URL.Query()
	if v := qp.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return opts, &errors.Error{
				Code: errors.EInvalid,
				Msg:  "page must be a positive integer",
			}
		}
		opts.Page = page
	}
	if v := qp.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 {
			return opts, &errors.Error{
				Code: errors.EInvalid,
				Msg:  "per_page must be a positive integer",
			}
		}
		opts.PerPage = perPage
	}

	return opts, nil
}
