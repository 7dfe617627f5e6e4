package types

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
)

type ListRequest struct {
	Query       string `json:"query" schema:"q"`
	Category    string `json:"category" schema:"category"`
	SubCategory string `json:"subCategory" schema:"subCategory"`
	Sort        string `json:"sort" schema:"sort,default:created"`
	Page        int    `json:"page" schema:"page"`
	PageSize    int    `json:"pageSize" schema:"size,default:40"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *ListRequest) Sanitize() {
	s.Page = clamp(s.Page, 0, 1000)
	s.PageSize = clamp(s.PageSize, 1, 500)
	if s.Sort == "" {
		s.Sort = "created"
	}
}

// CacheKey is the canonical representation of the request, used as the redis
// response cache key. Same constraints, same key.
func (s *ListRequest) CacheKey() string {
	return fmt.Sprintf("list:%s:%s:%s:%s:%d:%d", url.QueryEscape(s.Query), url.QueryEscape(s.Category), url.QueryEscape(s.SubCategory), s.Sort, s.Page, s.PageSize)
}

func ListRequestFromRequest(r *http.Request) (*ListRequest, error) {
	lr := &ListRequest{}
	var err error
	if r.Method == http.MethodGet {
		err = decoder.Decode(lr, r.URL.Query())
	} else {
		err = json.NewDecoder(r.Body).Decode(lr)
	}
	lr.Sanitize()
	return lr, err
}
